package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pairbudget/internal/core"
)

// ErrRemoteUnavailable is the single signal the gateway surfaces for any
// remote failure. Transport errors, non-2xx statuses, empty bodies and
// undecodable bodies all collapse into it; callers never learn which.
var ErrRemoteUnavailable = errors.New("remote store unavailable")

// RemoteStore talks to the journal API over HTTP.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

func NewRemoteStore(baseURL string, timeout time.Duration) *RemoteStore {
	return &RemoteStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchSettings reads the singleton settings row.
func (r *RemoteStore) FetchSettings(ctx context.Context) (core.BudgetSettings, error) {
	var settings core.BudgetSettings
	if err := r.getJSON(ctx, "/settings", &settings); err != nil {
		return core.BudgetSettings{}, err
	}
	if err := settings.Validate(); err != nil {
		// Shape mismatch fails closed and reads as an outage.
		return core.BudgetSettings{}, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	return settings, nil
}

func (r *RemoteStore) SaveSettings(ctx context.Context, settings core.BudgetSettings) error {
	return r.send(ctx, http.MethodPost, "/settings", settings)
}

// FetchExpenses reads the full journal, most recent first.
func (r *RemoteStore) FetchExpenses(ctx context.Context) ([]core.Expense, error) {
	var expenses []core.Expense
	if err := r.getJSON(ctx, "/journal", &expenses); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			// Shape mismatch fails closed and reads as an outage.
			return nil, fmt.Errorf("%w: expense %s: %v", ErrRemoteUnavailable, e.ID, err)
		}
	}
	return expenses, nil
}

func (r *RemoteStore) AddExpense(ctx context.Context, e core.Expense) error {
	return r.send(ctx, http.MethodPost, "/journal", e)
}

func (r *RemoteStore) UpdateExpense(ctx context.Context, e core.Expense) error {
	return r.send(ctx, http.MethodPut, "/journal", e)
}

func (r *RemoteStore) DeleteExpense(ctx context.Context, id string) error {
	return r.send(ctx, http.MethodDelete, "/journal?id="+id, nil)
}

func (r *RemoteStore) Reset(ctx context.Context) error {
	return r.send(ctx, http.MethodDelete, "/journal?reset=true", nil)
}

func (r *RemoteStore) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty response body", ErrRemoteUnavailable)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return nil
}

func (r *RemoteStore) send(ctx context.Context, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	// Writes carry the same failure taxonomy as reads: a 2xx with an
	// empty or undecodable body still counts as an outage.
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	if len(respBody) == 0 {
		return fmt.Errorf("%w: empty response body", ErrRemoteUnavailable)
	}
	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	return nil
}
