// Package adminapi holds every HTTP handler of the catalog: the public
// storefront queries, the session-gated admin mutations and the upload
// endpoint.
package adminapi

// RegisterRoutes wires all handler groups into the running webserver.
func RegisterRoutes() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerCartRoutes()
	registerUploadRoutes()
}
