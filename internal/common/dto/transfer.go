package dto

// ImportPreviewRequest carries the semicolon separated import text
type ImportPreviewRequest struct {
	Content string `json:"content"`
}

// ImportMember is one member to import
type ImportMember struct {
	Name             string `json:"name"`
	CustomFieldValue string `json:"customFieldValue"`
	Phone            string `json:"phone"`
}

// ImportMembersRequest lists the members confirmed after preview
type ImportMembersRequest struct {
	Members []ImportMember `json:"members" binding:"min=1"`
}

// ImportLineError is a preview line that could not be parsed
type ImportLineError struct {
	Line    int    `json:"line"`
	Content string `json:"content"`
	Error   string `json:"error"`
}

// ImportedMember reports the credentials of a created member
type ImportedMember struct {
	Name             string  `json:"name"`
	CustomFieldValue string  `json:"customFieldValue"`
	Phone            *string `json:"phone"`
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	Token            string  `json:"token"`
	Status           string  `json:"status"`
}

// ImportFailure reports a member that could not be created
type ImportFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportResult summarizes an import run
type ImportResult struct {
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Results []ImportedMember `json:"results"`
	Errors  []ImportFailure  `json:"errors"`
}
