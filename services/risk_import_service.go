package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"risk-management-api/models"
)

// ImportSummary reports the outcome of a bulk CSV import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type RiskImportService struct {
	db *gorm.DB
}

func NewRiskImportService(db *gorm.DB) *RiskImportService {
	return &RiskImportService{db: db}
}

var requiredImportColumns = []string{
	"title_ar", "title_en", "likelihood", "impact",
	"category_id", "department_id", "owner_id",
}

// ImportCSV reads the register CSV and inserts one risk per row inside a
// single transaction. Rows that fail validation are collected in the
// summary and skipped; a malformed file fails the whole import.
func (s *RiskImportService) ImportCSV(r io.Reader, actorID int) (*ImportSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, col := range requiredImportColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("missing required column %q", col)
		}
	}

	summary := &ImportSummary{}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		line := 1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to read CSV row %d: %w", line+1, err)
			}
			line++

			risk, rowErr := s.rowToRisk(tx, columns, record)
			if rowErr != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", line, rowErr))
				continue
			}

			if err := tx.Create(risk).Error; err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: %v", line, err))
				continue
			}

			if err := LogRiskChange(tx, risk.RiskID, actorID, "imported", nil, nil, strPtr(risk.RiskNumber)); err != nil {
				return err
			}
			summary.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *RiskImportService) rowToRisk(tx *gorm.DB, columns map[string]int, record []string) (*models.Risk, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	titleAr := field("title_ar")
	titleEn := field("title_en")
	if titleAr == "" && titleEn == "" {
		return nil, fmt.Errorf("title is required")
	}

	likelihood, err := strconv.Atoi(field("likelihood"))
	if err != nil {
		return nil, fmt.Errorf("invalid likelihood %q", field("likelihood"))
	}
	impact, err := strconv.Atoi(field("impact"))
	if err != nil {
		return nil, fmt.Errorf("invalid impact %q", field("impact"))
	}

	score, rating, err := ComputeScore(likelihood, impact)
	if err != nil {
		return nil, err
	}

	categoryID, err := strconv.Atoi(field("category_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid category_id %q", field("category_id"))
	}
	departmentID, err := strconv.Atoi(field("department_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid department_id %q", field("department_id"))
	}
	ownerID, err := strconv.Atoi(field("owner_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid owner_id %q", field("owner_id"))
	}

	status := field("status")
	if status == "" {
		status = models.RiskStatusOpen
	}
	if !models.IsValidRiskStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	riskNumber := field("risk_number")
	if riskNumber == "" {
		generated, err := GenerateRiskNumber(tx)
		if err != nil {
			return nil, err
		}
		riskNumber = generated
	}

	now := time.Now()
	risk := &models.Risk{
		RiskNumber:         riskNumber,
		TitleAr:            titleAr,
		TitleEn:            titleEn,
		InherentLikelihood: likelihood,
		InherentImpact:     impact,
		InherentScore:      score,
		InherentRating:     rating,
		Status:             status,
		ApprovalStatus:     models.ApprovalStatusDraft,
		DepartmentID:       departmentID,
		OwnerID:            ownerID,
		CategoryID:         categoryID,
		CreateAt:           &now,
		UpdateAt:           &now,
	}

	if desc := field("description_ar"); desc != "" {
		risk.DescriptionAr = &desc
	}
	if desc := field("description_en"); desc != "" {
		risk.DescriptionEn = &desc
	}
	if src := field("source_id"); src != "" {
		sourceID, err := strconv.Atoi(src)
		if err != nil {
			return nil, fmt.Errorf("invalid source_id %q", src)
		}
		risk.SourceID = &sourceID
	}

	return risk, nil
}

// ExportCSV writes the full register (non-deleted risks) as CSV.
func (s *RiskImportService) ExportCSV(w io.Writer) error {
	var risks []models.Risk
	if err := s.db.Where("delete_at IS NULL").Order("risk_id ASC").Find(&risks).Error; err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"risk_number", "title_ar", "title_en", "description_ar", "description_en",
		"likelihood", "impact", "score", "rating",
		"residual_likelihood", "residual_impact", "residual_score", "residual_rating",
		"status", "approval_status", "category_id", "source_id", "department_id", "owner_id",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, risk := range risks {
		record := []string{
			risk.RiskNumber,
			risk.TitleAr,
			risk.TitleEn,
			strOrEmpty(risk.DescriptionAr),
			strOrEmpty(risk.DescriptionEn),
			strconv.Itoa(risk.InherentLikelihood),
			strconv.Itoa(risk.InherentImpact),
			strconv.Itoa(risk.InherentScore),
			risk.InherentRating,
			intOrEmpty(risk.ResidualLikelihood),
			intOrEmpty(risk.ResidualImpact),
			intOrEmpty(risk.ResidualScore),
			strOrEmpty(risk.ResidualRating),
			risk.Status,
			risk.ApprovalStatus,
			strconv.Itoa(risk.CategoryID),
			intOrEmpty(risk.SourceID),
			strconv.Itoa(risk.DepartmentID),
			strconv.Itoa(risk.OwnerID),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
