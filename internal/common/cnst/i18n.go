package cnst

const (
	LangFR      = "fr"
	LangEN      = "en"
	LangDefault = LangFR

	// XLang is both the request header and the gin context key holding the negotiated language
	XLang = "X-Lang"
)
