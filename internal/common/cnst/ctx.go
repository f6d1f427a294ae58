package cnst

// Keys under which the auth resolvers store values in the gin context
const (
	CtxKeyUser          = "user"
	CtxKeyTenantStore   = "tenantStore"
	CtxKeyTenantID      = "tenantID"
	CtxKeyAssociationID = "associationID"
	CtxKeySuperAdmin    = "superAdmin"
	CtxKeyClaims        = "claims"
)

// Token audiences; a resolver never accepts the other tier's audience
const (
	AudienceTenant   = "tenant"
	AudiencePlatform = "platform"
)
