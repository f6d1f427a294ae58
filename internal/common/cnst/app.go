package cnst

const (
	AppName     = "assocmanager"
	CommandName = "apiserver"
)
