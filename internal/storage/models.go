// Package storage persists audits and defines the audit lifecycle.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/pagespeed"
)

// AuditStatus is the lifecycle state of an audit.
type AuditStatus string

const (
	StatusPending    AuditStatus = "pending"
	StatusProcessing AuditStatus = "processing"
	StatusCompleted  AuditStatus = "completed"
	StatusFailed     AuditStatus = "failed"
)

// validTransitions encodes the audit lifecycle. A failed audit may be
// re-run, a completed one is terminal.
var validTransitions = map[AuditStatus][]AuditStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusFailed:     {StatusProcessing},
	StatusCompleted:  {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s AuditStatus) CanTransition(next AuditStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s AuditStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// AuditTier is the plan tier an audit ran under.
type AuditTier string

const (
	TierBasic        AuditTier = "basic"
	TierProfessional AuditTier = "professional"
	TierAgency       AuditTier = "agency"
)

// Valid reports whether t is a known tier.
func (t AuditTier) Valid() bool {
	switch t {
	case TierBasic, TierProfessional, TierAgency:
		return true
	}
	return false
}

// Scores are the derived category scores of a completed audit, 0-100.
type Scores struct {
	Overall       int `json:"overall"`
	Performance   int `json:"performance"`
	SEO           int `json:"seo"`
	Security      int `json:"security"`
	Mobile        int `json:"mobile"`
	Content       int `json:"content"`
	Technical     int `json:"technical"`
	Accessibility int `json:"accessibility"`
	BestPractices int `json:"bestPractices"`
}

// IssuesCount tallies findings of a completed audit by weight class.
type IssuesCount struct {
	Critical      int `json:"critical"`
	Warnings      int `json:"warnings"`
	Opportunities int `json:"opportunities"`
}

// Audit is one audit record, from creation through completion.
type Audit struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	WebsiteURL   string       `json:"websiteUrl"`
	DisplayName  string       `json:"displayName"`
	Tier         AuditTier    `json:"tier"`
	Status       AuditStatus  `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	PagesScanned int          `json:"pagesScanned"`
	Scores       *Scores      `json:"scores,omitempty"`
	IssuesCount  *IssuesCount `json:"issuesCount,omitempty"`
	Error        string       `json:"error,omitempty"`

	PageSpeedResults *pagespeed.RunResult         `json:"pageSpeedResults,omitempty"`
	HTMLAnalysis     *analyzer.HTMLAnalysisResult `json:"htmlAnalysis,omitempty"`
}

// NewAuditID generates a random audit identifier.
func NewAuditID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to a time-based id rather than panic.
		return fmt.Sprintf("audit-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
