package twenty

// GraphQL operations against Twenty's core API. The Links composite fields
// carry primaryLinkUrl/primaryLinkLabel; filters use ilike for
// case-insensitive substring matching.

const queryFindPersonByLink = `
query FindPersonByLinkedIn($filter: PersonFilterInput) {
  people(filter: $filter, first: 1) {
    edges {
      node {
        id
        name { firstName lastName }
        linkedinLink { primaryLinkUrl primaryLinkLabel }
        jobTitle
        avatarUrl
        city
        company { id name }
      }
    }
  }
}`

const queryFindPersonByName = `
query FindPersonByName($filter: PersonFilterInput) {
  people(filter: $filter, first: 5) {
    edges {
      node {
        id
        name { firstName lastName }
        linkedinLink { primaryLinkUrl }
        jobTitle
        company { id name }
      }
    }
  }
}`

const querySearchPeople = `
query SearchPeople($filter: PersonFilterInput) {
  people(filter: $filter, first: 10) {
    edges {
      node {
        id
        name { firstName lastName }
        jobTitle
        company { id name }
      }
    }
  }
}`

const queryFindCompanyByLink = `
query FindCompanyByLinkedIn($filter: CompanyFilterInput) {
  companies(filter: $filter, first: 1) {
    edges {
      node {
        id
        name
        linkedinLink { primaryLinkUrl primaryLinkLabel }
        domainName { primaryLinkUrl primaryLinkLabel }
        employees
      }
    }
  }
}`

const queryFindCompanyByDomain = `
query FindCompanyByDomain($filter: CompanyFilterInput) {
  companies(filter: $filter, first: 5) {
    edges {
      node {
        id
        name
        linkedinLink { primaryLinkUrl }
        domainName { primaryLinkUrl primaryLinkLabel }
      }
    }
  }
}`

const queryFindCompanyByName = `
query FindCompanyByName($filter: CompanyFilterInput) {
  companies(filter: $filter, first: 5) {
    edges {
      node {
        id
        name
        linkedinLink { primaryLinkUrl }
      }
    }
  }
}`

const querySearchCompanies = `
query SearchCompanies($filter: CompanyFilterInput) {
  companies(filter: $filter, first: 10) {
    edges {
      node {
        id
        name
        domainName { primaryLinkUrl }
      }
    }
  }
}`

const queryCurrentWorkspace = `
query { currentWorkspace { id } }`

const mutationCreatePerson = `
mutation CreatePerson($input: PersonCreateInput!) {
  createPerson(data: $input) {
    id
    name { firstName lastName }
    linkedinLink { primaryLinkUrl }
    company { id name }
  }
}`

const mutationUpdatePerson = `
mutation UpdatePerson($id: UUID!, $input: PersonUpdateInput!) {
  updatePerson(id: $id, data: $input) {
    id
    name { firstName lastName }
  }
}`

const mutationCreateCompany = `
mutation CreateCompany($input: CompanyCreateInput!) {
  createCompany(data: $input) {
    id
    name
    linkedinLink { primaryLinkUrl }
  }
}`

const mutationUpdateCompany = `
mutation UpdateCompany($id: UUID!, $input: CompanyUpdateInput!) {
  updateCompany(id: $id, data: $input) {
    id
    name
  }
}`

const mutationUploadImage = `
mutation UploadImage($file: Upload!, $fileFolder: FileFolder) {
  uploadImage(file: $file, fileFolder: $fileFolder) {
    path
    token
  }
}`
