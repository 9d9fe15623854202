package model

// BlockAttributes is the typed attribute bag of one card block. RepoURL and
// Display are persisted by the host editor; Record and ErrorMessage are
// transient fields used only by the live preview.
type BlockAttributes struct {
	RepoURL      string           `json:"repo_url"`
	Display      DisplayConfig    `json:"display"`
	Record       RepositoryRecord `json:"record"`
	ErrorMessage string           `json:"error_message"`
}

// DefaultBlockAttributes returns attributes for a freshly inserted block.
func DefaultBlockAttributes() BlockAttributes {
	return BlockAttributes{Display: DefaultDisplayConfig()}
}

// ResetRecord clears every record field so stale data never outlives an
// invalid or failed edit.
func (a *BlockAttributes) ResetRecord() {
	a.Record = RepositoryRecord{}
}
