package cnst

// Tracer names used across the API server
const (
	// TraceAPIServer is the tracer name for HTTP server spans
	TraceAPIServer = "assocmanager/apiserver"
	// TraceProvision is the tracer name for association provisioning
	TraceProvision = "assocmanager/provision"
)

// Span names
const (
	SpanProvisionAssociation = "association.provision"
	SpanRemoveAssociation    = "association.remove"
)

// Span attribute keys
const (
	AttrAssociationCode = "association.code"
	AttrTenantDB        = "tenant.db"
)
