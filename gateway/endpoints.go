package gateway

import "strings"

// Endpoints are the backend collections the BFF talks to, all rooted at API_URL.
type Endpoints struct {
	Base         string
	Users        string
	Auth         string
	AzureAuth    string
	Activities   string
	Courses      string
	SystemBackup string
}

func NewEndpoints(apiURL string) Endpoints {
	host := strings.TrimRight(apiURL, "/")
	if host == "" {
		host = "http://localhost:5559"
	}
	return Endpoints{
		Base:         host,
		Users:        host + "/users",
		Auth:         host + "/auth",
		AzureAuth:    host + "/api/auth",
		Activities:   host + "/api/activities",
		Courses:      host + "/courses",
		SystemBackup: host + "/tmf-api/productCatalogManagement/v5/admin/backup/now",
	}
}
