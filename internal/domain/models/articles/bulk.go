package articles

// BulkAction is a batch mutation kind
type BulkAction string

const (
	BulkPublish        BulkAction = "publish"
	BulkUnpublish      BulkAction = "unpublish"
	BulkDelete         BulkAction = "delete"
	BulkUpdateCategory BulkAction = "updateCategory"
)

// BulkData carries action-specific payload
type BulkData struct {
	Category *string `json:"category,omitempty"`
}

// BulkRequest applies one action to a set of article ids
type BulkRequest struct {
	Action     BulkAction `json:"action"`
	ArticleIDs []string   `json:"articleIds"`
	Data       *BulkData  `json:"data,omitempty"`
}

// BulkResult reports how many stored articles the action touched
type BulkResult struct {
	Count      int      `json:"count"`
	ArticleIDs []string `json:"articleIds"`
}
