package domain

import (
	"context"
	"slices"
)

type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobContract   JobType = "contract"
	JobInternship JobType = "internship"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobFilled JobStatus = "filled"
)

type Salary struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type CompanyLogo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ImageHint   string `json:"image_hint"`
}

type Job struct {
	ID               string      `json:"id"`
	OwnerID          string      `json:"owner_id"`
	Title            string      `json:"title"`
	CompanyName      string      `json:"company_name"`
	Location         string      `json:"location"`
	Salary           Salary      `json:"salary"`
	Type             JobType     `json:"type"`
	Description      string      `json:"description"`
	Responsibilities []string    `json:"responsibilities"`
	Qualifications   []string    `json:"qualifications"`
	CompanyLogo      CompanyLogo `json:"company_logo"`
	PostedDate       string      `json:"posted_date"` // RFC 3339
	Views            int         `json:"views"`
	Status           JobStatus   `json:"status"`
}

// Clone returns a copy that shares no slices with j.
func (j Job) Clone() Job {
	j.Responsibilities = slices.Clone(j.Responsibilities)
	j.Qualifications = slices.Clone(j.Qualifications)
	return j
}

// JobInput is what an employer submits; everything else is filled by the store.
type JobInput struct {
	Title       string
	CompanyName string
	Location    string
	Salary      Salary
	Description string
}

// Placeholder lists assigned to every new job regardless of input.
var (
	DefaultResponsibilities = []string{
		"Key responsibilities are listed here.",
		"Complete assigned tasks within the agreed deadlines.",
	}
	DefaultQualifications = []string{
		"Key requirements are listed here.",
		"Skills needed to perform the role.",
	}
)

// StockCompanyLogos is the pool new jobs draw their logo from.
var StockCompanyLogos = []CompanyLogo{
	{ID: "company-logo-1", Description: "Abstract blue logo", ImageURL: "https://picsum.photos/seed/koryob1/100/100", ImageHint: "abstract logo"},
	{ID: "company-logo-2", Description: "Green leaf mark", ImageURL: "https://picsum.photos/seed/koryob2/100/100", ImageHint: "leaf logo"},
	{ID: "company-logo-3", Description: "Mountain emblem", ImageURL: "https://picsum.photos/seed/koryob3/100/100", ImageHint: "mountain emblem"},
	{ID: "company-logo-4", Description: "Geometric orange badge", ImageURL: "https://picsum.photos/seed/koryob4/100/100", ImageHint: "geometric badge"},
	{ID: "company-logo-5", Description: "Minimal monogram", ImageURL: "https://picsum.photos/seed/koryob5/100/100", ImageHint: "monogram"},
}

type JobRepository interface {
	// Fetch reports found == false when no job list was ever stored.
	Fetch(ctx context.Context) (jobs []Job, found bool, err error)
	Store(ctx context.Context, jobs []Job) error
}

type JobUsecase interface {
	// AddJob returns nil, nil when the client is not authenticated.
	AddJob(ctx context.Context, in JobInput) (*Job, error)
	IncrementViews(ctx context.Context, jobID string) error
	DeleteJob(ctx context.Context, jobID string) error
	ToggleJobStatus(ctx context.Context, jobID string) error
	Jobs(ctx context.Context) []Job
	JobsByOwner(ctx context.Context, ownerID string) []Job
	GetJob(ctx context.Context, jobID string) (*Job, error)
}
