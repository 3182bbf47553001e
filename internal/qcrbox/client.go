package qcrbox

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/qcrbox/cifprobe/internal/errors"
)

// Parameter is one resolved command argument. File parameters carry their
// upload content; simple parameters carry the literal value.
type Parameter struct {
	Name        string
	Value       any
	FileContent []byte
	UploadName  string
}

// IsFile reports whether the parameter uploads content as a dataset.
func (p Parameter) IsFile() bool { return p.FileContent != nil }

// Request describes one command invocation.
type Request struct {
	ApplicationSlug    string
	ApplicationVersion string
	CommandName        string
	Parameters         []Parameter
}

// Invocation is the observed result of a completed command invocation:
// the terminal status plus the raw output document, when one was produced.
type Invocation struct {
	Status     Status
	OutputText string
}

// Client calls the QCrBox HTTP API. The zero value is not usable; construct
// with NewClient.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	timeout      time.Duration
	logger       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger to the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a client for the API at baseURL. pollInterval is the
// delay between calculation status checks; timeout bounds the whole
// invocation including polling.
func NewClient(baseURL string, pollInterval, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// API response envelopes. Only the fields the runner needs are decoded.

type datasetEnvelope struct {
	Payload struct {
		Datasets []struct {
			DatasetID string `json:"qcrbox_dataset_id"`
			DataFiles map[string]struct {
				FileID string `json:"qcrbox_file_id"`
			} `json:"data_files"`
		} `json:"datasets"`
	} `json:"payload"`
}

type invokeEnvelope struct {
	Payload struct {
		CalculationID string `json:"calculation_id"`
	} `json:"payload"`
}

type calculationEnvelope struct {
	Payload struct {
		Calculations []struct {
			Status          string `json:"status"`
			OutputDatasetID string `json:"output_dataset_id"`
		} `json:"calculations"`
	} `json:"payload"`
}

// Invoke runs one command to completion: uploads file parameters as
// datasets, submits the invocation, polls the calculation until it reaches
// a terminal status, and downloads the output dataset of a successful run.
// Uploaded input datasets and the downloaded output dataset are deleted
// afterwards. Transport problems return errors; a failed command status
// does not.
func (c *Client) Invoke(ctx context.Context, req Request) (*Invocation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	arguments := make(map[string]any, len(req.Parameters))
	var inputDatasets []string
	for _, p := range req.Parameters {
		if !p.IsFile() {
			arguments[p.Name] = p.Value
			continue
		}
		datasetID, fileID, err := c.uploadDataset(ctx, p.UploadName, p.FileContent)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upload parameter %q", p.Name)
		}
		inputDatasets = append(inputDatasets, datasetID)
		arguments[p.Name] = map[string]any{"data_file_id": fileID}
	}

	calculationID, err := c.invokeCommand(ctx, req, arguments)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("command", req.CommandName).
		Str("calculation_id", calculationID).
		Msg("command submitted, polling calculation")

	status, outputDatasetID, err := c.awaitCalculation(ctx, calculationID)

	// Input datasets are transient regardless of the outcome; removal
	// failures are logged, not escalated.
	for _, id := range inputDatasets {
		if derr := c.deleteDataset(ctx, id); derr != nil {
			c.logger.Warn().Err(derr).Str("dataset_id", id).Msg("failed to delete input dataset")
		}
	}
	if err != nil {
		return nil, err
	}

	inv := &Invocation{Status: status}
	if status == StatusSuccessful || status == StatusWarning {
		if outputDatasetID == "" {
			return nil, errors.Wrapf(errors.ErrNoOutputDataset, "calculation %s", calculationID)
		}
		output, err := c.downloadDataset(ctx, outputDatasetID)
		if err != nil {
			return nil, err
		}
		if derr := c.deleteDataset(ctx, outputDatasetID); derr != nil {
			c.logger.Warn().Err(derr).Str("dataset_id", outputDatasetID).Msg("failed to delete output dataset")
		}
		inv.OutputText = string(output)
	}
	return inv, nil
}

func (c *Client) uploadDataset(ctx context.Context, filename string, content []byte) (datasetID, fileID string, err error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to build upload body")
	}
	if _, err := part.Write(content); err != nil {
		return "", "", errors.Wrap(err, "failed to build upload body")
	}
	if err := writer.Close(); err != nil {
		return "", "", errors.Wrap(err, "failed to build upload body")
	}

	var env datasetEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/datasets", writer.FormDataContentType(), &body, &env); err != nil {
		return "", "", err
	}
	if len(env.Payload.Datasets) == 0 {
		return "", "", errors.Wrap(errors.ErrTransport, "dataset upload returned no datasets")
	}
	ds := env.Payload.Datasets[0]
	file, ok := ds.DataFiles[filename]
	if !ok {
		return "", "", errors.Wrapf(errors.ErrTransport, "uploaded file %q missing from dataset response", filename)
	}
	return ds.DatasetID, file.FileID, nil
}

func (c *Client) invokeCommand(ctx context.Context, req Request, arguments map[string]any) (string, error) {
	payload := map[string]any{
		"application_slug":    req.ApplicationSlug,
		"application_version": req.ApplicationVersion,
		"command_name":        req.CommandName,
		"command_arguments":   arguments,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode invocation")
	}

	var env invokeEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/v1/commands/invoke", "application/json", bytes.NewReader(body), &env); err != nil {
		return "", errors.Wrapf(err, "failed to invoke command %q", req.CommandName)
	}
	if env.Payload.CalculationID == "" {
		return "", errors.Wrap(errors.ErrTransport, "invocation response missing calculation_id")
	}
	return env.Payload.CalculationID, nil
}

// awaitCalculation polls until the calculation reports a terminal status.
func (c *Client) awaitCalculation(ctx context.Context, calculationID string) (Status, string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var env calculationEnvelope
		if err := c.do(ctx, http.MethodGet, "/api/v1/calculations/"+url.PathEscape(calculationID), "", nil, &env); err != nil {
			if stderrors.Is(err, context.DeadlineExceeded) {
				return "", "", errors.Wrapf(errors.ErrInvocationTimeout, "calculation %s", calculationID)
			}
			return "", "", errors.Wrapf(err, "failed to poll calculation %s", calculationID)
		}
		for _, calc := range env.Payload.Calculations {
			if status, err := ParseStatus(calc.Status); err == nil {
				return status, calc.OutputDatasetID, nil
			}
		}

		select {
		case <-ctx.Done():
			return "", "", errors.Wrapf(errors.ErrInvocationTimeout, "calculation %s", calculationID)
		case <-ticker.C:
		}
	}
}

func (c *Client) downloadDataset(ctx context.Context, datasetID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/datasets/"+url.PathEscape(datasetID)+"/download", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build download request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrTransport, "dataset download returned HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTransport, "failed to read dataset body: "+err.Error())
	}
	return data, nil
}

func (c *Client) deleteDataset(ctx context.Context, datasetID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/datasets/"+url.PathEscape(datasetID), "", nil, nil)
}

// do performs one API request and decodes the JSON response into out, when
// out is non-nil. Non-2xx responses and connection failures become
// transport errors; connection failures are additionally classified as
// endpoint-unreachable so the runner can abort early.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Wrapf(errors.ErrTransport, "%s %s returned HTTP %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(errors.ErrTransport, "%s %s: failed to decode response: %v", method, path, err)
	}
	return nil
}

// classifyTransportError separates "could not reach the endpoint at all"
// from other transport problems. Context expiry during polling surfaces as
// a timeout at the caller, so it is passed through untouched.
func classifyTransportError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return err
	}
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", errors.ErrEndpointUnreachable, err)
	}
	return errors.Wrap(errors.ErrTransport, err.Error())
}
