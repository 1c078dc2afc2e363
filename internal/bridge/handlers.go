package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/neilk17/twenty-capture/internal/capture"
	"github.com/neilk17/twenty-capture/internal/model"
	"github.com/neilk17/twenty-capture/internal/resolve"
	"github.com/neilk17/twenty-capture/internal/scrape"
)

// Operation names understood by the bridge.
const (
	OpCheckDuplicate         = "CHECK_DUPLICATE"
	OpCheckDuplicateByDomain = "CHECK_DUPLICATE_BY_DOMAIN"
	OpCreateRecord           = "CREATE_RECORD"
	OpCreateCompanyByDomain  = "CREATE_COMPANY_BY_DOMAIN"
	OpUpdateRecord           = "UPDATE_RECORD"
	OpSearchRecords          = "SEARCH_RECORDS"
	OpGetSettings            = "GET_SETTINGS"
	OpSaveSettings           = "SAVE_SETTINGS"
	OpTestConnection         = "TEST_CONNECTION"
	OpGetRecentCaptures      = "GET_RECENT_CAPTURES"
	OpScrapePage             = "SCRAPE_PAGE"
)

func (s *Server) dispatch(r *http.Request, svc *capture.Service, msg Message) (Response, int) {
	ctx := r.Context()

	switch msg.Type {
	case OpCheckDuplicate:
		var entity model.ScrapedEntity
		if err := json.Unmarshal(msg.Payload, &entity); err != nil {
			return badPayload(err)
		}
		result, err := svc.CheckDuplicate(ctx, entity)
		if err != nil {
			return failure(err)
		}
		return success(result)

	case OpCheckDuplicateByDomain:
		var payload struct {
			Domain string `json:"domain"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		result, err := svc.CheckDuplicateByDomain(ctx, payload.Domain)
		if err != nil {
			return failure(err)
		}
		return success(result)

	case OpCreateRecord:
		var entity model.ScrapedEntity
		if err := json.Unmarshal(msg.Payload, &entity); err != nil {
			return badPayload(err)
		}
		result, err := svc.CreateRecord(ctx, entity)
		if err != nil {
			return failure(err)
		}
		return success(result)

	case OpCreateCompanyByDomain:
		var payload model.DomainOrganization
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		result, err := svc.CreateRecord(ctx, model.ScrapedEntity{ByDomain: &payload})
		if err != nil {
			return failure(err)
		}
		return success(result)

	case OpUpdateRecord:
		var payload struct {
			ID     string              `json:"id"`
			Entity model.ScrapedEntity `json:"entity"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		if err := svc.UpdateRecord(ctx, payload.ID, payload.Entity); err != nil {
			return failure(err)
		}
		return success(map[string]string{"id": payload.ID})

	case OpSearchRecords:
		var payload struct {
			Query string           `json:"query"`
			Type  model.EntityKind `json:"type"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		if payload.Type != model.KindPerson && payload.Type != model.KindOrganization {
			return badPayload(fmt.Errorf("unknown record type %q", payload.Type))
		}
		results, err := svc.Search(ctx, payload.Query, payload.Type)
		if err != nil {
			return failure(err)
		}
		return success(results)

	case OpGetSettings:
		settings, err := svc.GetSettings(ctx)
		if err != nil {
			return failure(err)
		}
		return success(settings)

	case OpSaveSettings:
		var payload struct {
			CRMBaseURL string `json:"crmBaseUrl"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		if err := svc.SaveSettings(ctx, payload.CRMBaseURL); err != nil {
			return failure(err)
		}
		return success(nil)

	case OpTestConnection:
		if err := svc.TestConnection(ctx); err != nil {
			return failure(err)
		}
		return success(map[string]bool{"connected": true})

	case OpGetRecentCaptures:
		entries, err := svc.RecentCaptures(ctx)
		if err != nil {
			return failure(err)
		}
		return success(entries)

	case OpScrapePage:
		var payload struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return badPayload(err)
		}
		kind := scrape.DetectKind(payload.URL)
		if kind == scrape.PageOther {
			domain := resolve.ExtractRootDomain(payload.URL)
			if domain == "" {
				return Response{Success: false, Error: "unrecognized page"}, http.StatusOK
			}
			return success(map[string]string{"kind": "domain", "domain": domain})
		}
		entity, err := s.scraper.ScrapeURL(ctx, payload.URL)
		if err != nil {
			return failure(err)
		}
		return success(map[string]any{"kind": string(kind), "entity": entity})

	default:
		return Response{Success: false, Error: "unknown message type: " + msg.Type}, http.StatusBadRequest
	}
}

func badPayload(err error) (Response, int) {
	return Response{Success: false, Error: "invalid payload: " + err.Error()}, http.StatusBadRequest
}
