package store

// Project is a single top-level indexed workspace directory.
type Project struct {
	ID        int64
	Name      string
	Path      string
	CreatedAt string
	UpdatedAt string
}

// Document is one markdown file owned by a project.
type Document struct {
	ID          int64
	ProjectID   int64
	ProjectName string
	Path        string
	Folder      string
	Filename    string
	Type        string
	Status      string
	Owner       string
	Feature     string
	Tags        []string
	Updated     string
	ContentHash string
	MTime       float64
}

// Chunk is one heading-or-size-bounded slice of a document's body.
type Chunk struct {
	ID              int64
	DocumentID      int64
	Heading         string
	HeadingLevel    int
	Body            string
	Order           int
	Offset          int
	PriorityHeading bool
}

// DocumentFilter narrows ListDocuments.
type DocumentFilter struct {
	Project string
	Folder  string
	Status  string
}

// SearchResult is one ranked search hit, carrying every scoring factor so
// callers can explain the final score.
type SearchResult struct {
	ProjectName  string
	DocumentPath string
	Folder       string
	Heading      string
	Snippet      string
	Score        float64
	BM25         float64
	TypeBoost    float64
	RecencyBoost float64
	HeadingBoost float64
	StatusBoost  float64
}

// WebhookSubscription is a registered delivery target.
type WebhookSubscription struct {
	ID          int64
	URL         string
	Secret      string
	EventTypes  []string
	Project     string // "" means all projects
	Description string
	Active      bool
	CreatedAt   string
}

// DeliveryLog is one audit row for a single delivery attempt.
type DeliveryLog struct {
	ID             int64
	SubscriptionID int64
	EventType      string
	EventID        string
	Payload        string
	StatusCode     *int
	Success        bool
	ErrorMessage   string
	Timestamp      string
}
