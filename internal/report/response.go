package report

import (
	"salesreport-backend/internal/models"

	"github.com/shopspring/decimal"
)

const timeFormat = "2006-01-02 15:04:05"

type TargetResponse struct {
	ID                uint            `json:"id"`
	Target            decimal.Decimal `json:"target"`
	TargetYear        int             `json:"targetYear"`
	TargetMonth       int             `json:"targetMonth"`
	BranchName        string          `json:"branchName"`
	RegionName        string          `json:"regionName"`
	CreatedByUsername string          `json:"createdByUsername,omitempty"`
	ModifyByUsername  string          `json:"modifyByUsername,omitempty"`
	CreatedDatetime   string          `json:"createdDatetime"`
	ModifyDatetime    string          `json:"modifyDatetime,omitempty"`
}

type CollectionResponse struct {
	ID                uint            `json:"id"`
	Target            decimal.Decimal `json:"target"`
	Due               decimal.Decimal `json:"due"`
	CollectionAmount  decimal.Decimal `json:"collectionAmount"`
	Percentage        decimal.Decimal `json:"percentage"`
	CollectionYear    int             `json:"collectionYear"`
	CollectionMonth   int             `json:"collectionMonth"`
	BranchName        string          `json:"branchName"`
	RegionName        string          `json:"regionName"`
	CreatedByUsername string          `json:"createdByUsername,omitempty"`
	ModifyByUsername  string          `json:"modifyByUsername,omitempty"`
	CreatedDatetime   string          `json:"createdDatetime"`
	ModifyDatetime    string          `json:"modifyDatetime,omitempty"`
}

// Converters expect Branch.Region and the audit users preloaded.

func ToTargetResponse(t *models.Target) TargetResponse {
	resp := TargetResponse{
		ID:              t.ID,
		Target:          t.Amount,
		TargetYear:      t.Year,
		TargetMonth:     t.Month,
		BranchName:      t.Branch.Name,
		RegionName:      t.Branch.Region.Name,
		CreatedDatetime: t.CreatedAt.Format(timeFormat),
	}
	resp.CreatedByUsername = t.CreatedBy.Username
	if t.ModifiedBy != nil {
		resp.ModifyByUsername = t.ModifiedBy.Username
		resp.ModifyDatetime = t.UpdatedAt.Format(timeFormat)
	}
	return resp
}

func ToCollectionResponse(c *models.Collection) CollectionResponse {
	resp := CollectionResponse{
		ID:               c.ID,
		Target:           c.Target,
		Due:              c.Due,
		CollectionAmount: c.CollectionAmount,
		Percentage:       c.Percentage,
		CollectionYear:   c.Year,
		CollectionMonth:  c.Month,
		BranchName:       c.Branch.Name,
		RegionName:       c.Branch.Region.Name,
		CreatedDatetime:  c.CreatedAt.Format(timeFormat),
	}
	resp.CreatedByUsername = c.CreatedBy.Username
	if c.ModifiedBy != nil {
		resp.ModifyByUsername = c.ModifiedBy.Username
		resp.ModifyDatetime = c.UpdatedAt.Format(timeFormat)
	}
	return resp
}
