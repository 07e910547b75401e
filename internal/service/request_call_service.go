package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bais_express/internal/model"
	"bais_express/internal/repository"

	"github.com/rs/zerolog"
)

var ErrRequestCallNotFound = errors.New("request not found")

// RequestNotifier is told about every stored request. It must not block.
type RequestNotifier interface {
	NotifyNewRequest(rc model.RequestCall)
}

// RequestCallService defines operations for pickup requests
type RequestCallService interface {
	Create(ctx context.Context, req model.CreateRequestCallRequest) (*model.RequestCall, error)
	List(ctx context.Context) ([]model.RequestCall, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	ExportCSV(ctx context.Context) (*bytes.Buffer, error)
}

type requestCallService struct {
	repo     repository.RequestCallRepository
	notifier RequestNotifier
	log      zerolog.Logger
}

// NewRequestCallService creates a new RequestCallService
func NewRequestCallService(repo repository.RequestCallRepository, notifier RequestNotifier, log zerolog.Logger) RequestCallService {
	return &requestCallService{repo: repo, notifier: notifier, log: log}
}

func (s *requestCallService) Create(ctx context.Context, req model.CreateRequestCallRequest) (*model.RequestCall, error) {
	rc := &model.RequestCall{
		Name:         req.Name,
		Phone:        req.Phone,
		Pickup:       req.Pickup,
		DropLocation: req.Drop,
		Cargo:        req.Cargo,
		Status:       model.StatusNew,
	}
	if err := s.repo.Create(ctx, rc); err != nil {
		return nil, fmt.Errorf("failed to create request call in repo: %w", err)
	}

	s.log.Info().Int64("request_id", rc.ID).Msg("request call stored")
	s.notifier.NotifyNewRequest(*rc)
	return rc, nil
}

func (s *requestCallService) List(ctx context.Context) ([]model.RequestCall, error) {
	calls, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list request calls: %w", err)
	}
	return calls, nil
}

func (s *requestCallService) UpdateStatus(ctx context.Context, id int64, status string) error {
	found, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update request call %d: %w", id, err)
	}
	if !found {
		return ErrRequestCallNotFound
	}
	return nil
}

func (s *requestCallService) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete request call %d: %w", id, err)
	}
	if !found {
		return ErrRequestCallNotFound
	}
	return nil
}

// ExportCSV renders every request, newest first, for the admin spreadsheet download
func (s *requestCallService) ExportCSV(ctx context.Context) (*bytes.Buffer, error) {
	calls, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request calls for CSV export: %w", err)
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.Write([]string{"ID", "Name", "Phone", "Pickup", "Drop", "Cargo", "Status", "CreatedAt"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rc := range calls {
		row := []string{
			strconv.FormatInt(rc.ID, 10),
			rc.Name,
			rc.Phone,
			rc.Pickup,
			rc.DropLocation,
			rc.Cargo,
			rc.Status,
			rc.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}
