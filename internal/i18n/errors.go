package i18n

// Authentication and authorization
var (
	ErrTokenMissing        = NewErrorWithCode("ErrTokenMissing", ErrorUnauthorized)
	ErrTokenInvalid        = NewErrorWithCode("ErrTokenInvalid", ErrorForbidden)
	ErrUserInactive        = NewErrorWithCode("ErrUserInactive", ErrorUnauthorized)
	ErrAdminRequired       = NewErrorWithCode("ErrAdminRequired", ErrorForbidden)
	ErrSuperAdminRequired  = NewErrorWithCode("ErrSuperAdminRequired", ErrorForbidden)
	ErrSuperAdminInvalid   = NewErrorWithCode("ErrSuperAdminInvalid", ErrorForbidden)
	ErrInvalidCredentials  = NewErrorWithCode("ErrInvalidCredentials", ErrorUnauthorized)
	ErrInvalidAccessToken  = NewErrorWithCode("ErrInvalidAccessToken", ErrorUnauthorized)
	ErrCredentialsRequired = NewErrorWithCode("ErrCredentialsRequired", ErrorBadRequest)
	ErrAccountDisabled     = NewErrorWithCode("ErrAccountDisabled", ErrorUnauthorized)
)

// Associations
var (
	ErrAssociationNotFound       = NewErrorWithCode("ErrAssociationNotFound", ErrorNotFound)
	ErrAssociationInactive       = NewErrorWithCode("ErrAssociationInactive", ErrorForbidden)
	ErrAssociationFieldsRequired = NewErrorWithCode("ErrAssociationFieldsRequired", ErrorBadRequest)
	ErrAssociationCodeTaken      = NewErrorWithCode("ErrAssociationCodeTaken", ErrorConflict)
	ErrDefaultAssociationDelete  = NewErrorWithCode("ErrDefaultAssociationDelete", ErrorBadRequest)
	ErrConfigRequired            = NewErrorWithCode("ErrConfigRequired", ErrorBadRequest)
)

// Users, admins and members
var (
	ErrEmailPasswordRequired = NewErrorWithCode("ErrEmailPasswordRequired", ErrorBadRequest)
	ErrEmailTaken            = NewErrorWithCode("ErrEmailTaken", ErrorConflict)
	ErrPhoneTaken            = NewErrorWithCode("ErrPhoneTaken", ErrorConflict)
	ErrCannotDeactivateSelf  = NewErrorWithCode("ErrCannotDeactivateSelf", ErrorBadRequest)
	ErrPasswordTooShort      = NewErrorWithCode("ErrPasswordTooShort", ErrorBadRequest)
	ErrAdminNotFound         = NewErrorWithCode("ErrAdminNotFound", ErrorNotFound)
	ErrMemberFieldsRequired  = NewErrorWithCode("ErrMemberFieldsRequired", ErrorBadRequest)
	ErrMemberContactRequired = NewErrorWithCode("ErrMemberContactRequired", ErrorBadRequest)
	ErrMemberNotFound        = NewErrorWithCode("ErrMemberNotFound", ErrorNotFound)
	ErrMemberSeparator       = NewErrorWithCode("ErrMemberSeparator", ErrorBadRequest)
)

// Years and payments
var (
	ErrYearFieldsRequired    = NewErrorWithCode("ErrYearFieldsRequired", ErrorBadRequest)
	ErrMonthlyAmountRequired = NewErrorWithCode("ErrMonthlyAmountRequired", ErrorBadRequest)
	ErrYearExists            = NewErrorWithCode("ErrYearExists", ErrorConflict)
	ErrYearNotFound          = NewErrorWithCode("ErrYearNotFound", ErrorNotFound)
	ErrNoActiveYear          = NewErrorWithCode("ErrNoActiveYear", ErrorNotFound)
	ErrYearHasPayments       = NewErrorWithCode("ErrYearHasPayments", ErrorBadRequest)
	ErrPaymentFieldsRequired = NewErrorWithCode("ErrPaymentFieldsRequired", ErrorBadRequest)
	ErrInvalidMonth          = NewErrorWithCode("ErrInvalidMonth", ErrorBadRequest)
	ErrInvalidAmount         = NewErrorWithCode("ErrInvalidAmount", ErrorBadRequest)
	ErrPaymentNotFound       = NewErrorWithCode("ErrPaymentNotFound", ErrorNotFound)
)

// Exceptional contributions
var (
	ErrContributionFieldsRequired       = NewErrorWithCode("ErrContributionFieldsRequired", ErrorBadRequest)
	ErrContributionType                 = NewErrorWithCode("ErrContributionType", ErrorBadRequest)
	ErrContributionNotFound             = NewErrorWithCode("ErrContributionNotFound", ErrorNotFound)
	ErrExceptionalPaymentFieldsRequired = NewErrorWithCode("ErrExceptionalPaymentFieldsRequired", ErrorBadRequest)
)

// Import and generic failures
var (
	ErrImportContentRequired = NewErrorWithCode("ErrImportContentRequired", ErrorBadRequest)
	ErrImportMembersRequired = NewErrorWithCode("ErrImportMembersRequired", ErrorBadRequest)
	ErrInvalidRequest        = NewErrorWithCode("ErrInvalidRequest", ErrorBadRequest)
	ErrInternal              = NewErrorWithCode("ErrInternal", ErrorInternalServer)
)

// Success message IDs
const (
	MsgMemberDeactivated      = "MsgMemberDeactivated"
	MsgMemberActivated        = "MsgMemberActivated"
	MsgMemberDeleted          = "MsgMemberDeleted"
	MsgPasswordReset          = "MsgPasswordReset"
	MsgTokenRegenerated       = "MsgTokenRegenerated"
	MsgAdminDeactivated       = "MsgAdminDeactivated"
	MsgAdminActivated         = "MsgAdminActivated"
	MsgAdminPasswordReset     = "MsgAdminPasswordReset"
	MsgYearDeleted            = "MsgYearDeleted"
	MsgPaymentDeleted         = "MsgPaymentDeleted"
	MsgContributionDeleted    = "MsgContributionDeleted"
	MsgAssociationCreated     = "MsgAssociationCreated"
	MsgAssociationActivated   = "MsgAssociationActivated"
	MsgAssociationDeactivated = "MsgAssociationDeactivated"
	MsgAssociationDeleted     = "MsgAssociationDeleted"
)

// Import line problems
var (
	ErrImportLineFormat     = NewErrorWithCode("ErrImportLineFormat", ErrorBadRequest)
	ErrImportNameRequired   = NewErrorWithCode("ErrImportNameRequired", ErrorBadRequest)
	ErrImportDuplicateEmail = NewErrorWithCode("ErrImportDuplicateEmail", ErrorConflict)
)
