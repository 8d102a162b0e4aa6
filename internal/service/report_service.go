package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-admin/internal/model"
)

const (
	titleNewReport     = "New Report Submitted"
	titleReportUpdated = "Report Status Updated"
)

type ReportService struct {
	repo     ReportStore
	users    UserDirectory
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewReportService(repo ReportStore, users UserDirectory, notifier Notifier, log zerolog.Logger) *ReportService {
	return &ReportService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log.With().Str("component", "report_service").Logger(),
		now:      time.Now,
	}
}

func (s *ReportService) List(ctx context.Context, principal model.Principal, filter model.ReportFilter) ([]model.Report, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if principal.IsCitizen() {
		own := principal.UserID
		filter.UserID = &own
	}
	reports, err := s.repo.ListReports(ctx, filter)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return reports, nil
}

func (s *ReportService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Report, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if principal.IsCitizen() && report.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return report, nil
}

// Create files a new report for the principal and notifies every admin.
func (s *ReportService) Create(ctx context.Context, principal model.Principal, raw map[string]interface{}) (*CreateResult, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	fields, err := ParseFields(model.EntityReport, raw)
	if err != nil {
		return nil, err
	}
	for _, required := range []Field{FieldBinID, FieldIssueType, FieldDescription} {
		if !fields.Has(required) {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, required)
		}
	}

	report := model.Report{
		UserID:      principal.UserID,
		BinID:       fields[FieldBinID].(string),
		IssueType:   fields[FieldIssueType].(model.IssueType),
		Description: fields[FieldDescription].(string),
		Priority:    model.PriorityMedium,
		Status:      model.ReportStatusPending,
	}
	if priority, ok := fields[FieldPriority].(model.Priority); ok {
		report.Priority = priority
	}

	saved, err := s.repo.CreateReport(ctx, report)
	if err != nil {
		return nil, translateStoreError(err)
	}

	emitted := s.notifier.Dispatch(s.newReportIntents(ctx, *saved)...)
	return &CreateResult{Data: saved, NotificationsEmitted: emitted}, nil
}

// Update applies the admitted subset of raw to the report.
func (s *ReportService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, raw map[string]interface{}) (*UpdateResult, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if principal.IsCitizen() && report.UserID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	owner := report.UserID
	admitted, denied, err := AdmitRaw(AccessCheck{
		Principal:     principal,
		Kind:          model.EntityReport,
		OwnerID:       &owner,
		CurrentStatus: string(report.Status),
	}, raw)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Kind: model.EntityReport, Data: report, Denied: denied}
	if len(admitted) == 0 {
		result.NoOp = true
		if len(denied) > 0 {
			s.log.Debug().
				Str("report_id", id.String()).
				Str("role", string(principal.Role)).
				Interface("denied", denied).
				Msg("report update admitted no fields")
		}
		return result, nil
	}

	now := s.now().UTC()
	columns := admitted.Columns()
	columns["updated_at"] = now
	if status, ok := admitted[FieldStatus].(model.ReportStatus); ok && status == model.ReportStatusResolved {
		columns["resolved_at"] = now
	}

	if err := s.repo.UpdateReport(ctx, id, columns); err != nil {
		return nil, translateStoreError(err)
	}

	applyReportFields(report, admitted, now)
	result.Mutated = admitted.Fields()

	if status, ok := admitted[FieldStatus].(model.ReportStatus); ok {
		result.NotificationsEmitted = s.notifier.Dispatch(model.NotificationIntent{
			UserID:            report.UserID,
			Title:             titleReportUpdated,
			Message:           fmt.Sprintf("Your report has been updated to: %s", status),
			Type:              model.NotificationInfo,
			RelatedEntityType: model.EntityReport,
			RelatedEntityID:   report.ID.String(),
		})
	}
	return result, nil
}

func (s *ReportService) Delete(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetReport(ctx, id); err != nil {
		return translateStoreError(err)
	}
	return translateStoreError(s.repo.DeleteReport(ctx, id))
}

func (s *ReportService) newReportIntents(ctx context.Context, report model.Report) []model.NotificationIntent {
	admins, err := s.users.ListUserIDsByRole(ctx, model.RoleAdmin)
	if err != nil {
		s.log.Error().Err(err).Str("report_id", report.ID.String()).Msg("failed to resolve admin recipients")
		return nil
	}
	intents := make([]model.NotificationIntent, 0, len(admins))
	for _, adminID := range admins {
		intents = append(intents, model.NotificationIntent{
			UserID:            adminID,
			Title:             titleNewReport,
			Message:           fmt.Sprintf("A new %s report has been submitted", report.IssueType),
			Type:              model.NotificationAlert,
			RelatedEntityType: model.EntityReport,
			RelatedEntityID:   report.ID.String(),
		})
	}
	return intents
}

func applyReportFields(report *model.Report, fields FieldSet, now time.Time) {
	for field, value := range fields {
		switch field {
		case FieldBinID:
			if binID := value.(string); binID != report.BinID {
				report.BinID = binID
				report.BinLocation = nil
			}
		case FieldIssueType:
			report.IssueType = value.(model.IssueType)
		case FieldDescription:
			report.Description = value.(string)
		case FieldPriority:
			report.Priority = value.(model.Priority)
		case FieldStatus:
			report.Status = value.(model.ReportStatus)
			if report.Status == model.ReportStatusResolved {
				resolvedAt := now
				report.ResolvedAt = &resolvedAt
			}
		case FieldResolutionNotes:
			notes := value.(string)
			report.ResolutionNotes = &notes
		}
	}
	report.UpdatedAt = now
}
