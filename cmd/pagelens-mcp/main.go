package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// analyzeRequest mirrors the PageLens API request model.
type analyzeRequest struct {
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// errorResponse mirrors the PageLens API error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// sessionStartResponse mirrors the PageLens session start response.
type sessionStartResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// sessionStateResponse mirrors the PageLens session state response.
type sessionStateResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
	Logs   []string        `json:"logs"`
}

func main() {
	apiURL := os.Getenv("PAGELENS_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Optional: only needed when the API runs with auth enabled.
	apiKey := os.Getenv("PAGELENS_API_KEY")

	s := server.NewMCPServer(
		"pagelens",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	analyzePageTool := mcp.NewTool("analyze_page",
		mcp.WithDescription("Analyze a web page and return a structured record of its core entity (product, service, or content item): identity, pricing, availability, specifications, ingredients, and nutrition facts where applicable. Blocks until the analysis finishes."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to analyze"),
		),
		mcp.WithString("image_url",
			mcp.Description("Optional product image URL to attach as additional visual context"),
		),
	)
	s.AddTool(analyzePageTool, handleAnalyzePage(apiURL, apiKey))

	analyzePageTrackedTool := mcp.NewTool("analyze_page_tracked",
		mcp.WithDescription("Analyze a web page via a tracked session: starts the analysis, polls for progress, and returns the structured record together with the progress log. Useful when you want visibility into long-running analyses."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to analyze"),
		),
		mcp.WithString("image_url",
			mcp.Description("Optional product image URL to attach as additional visual context"),
		),
	)
	s.AddTool(analyzePageTrackedTool, handleAnalyzePageTracked(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the PageLens API and returns the status
// code and response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// apiGet sends a GET request to the PageLens API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// formatPayload pretty-prints the extracted JSON payload.
func formatPayload(data json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return string(data)
	}
	return pretty.String()
}

func handleAnalyzePage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		imageURL := request.GetString("image_url", "")

		status, respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/analyze", analyzeRequest{
			URL:      url,
			ImageURL: imageURL,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze request failed: %v", err)), nil
		}

		if status != http.StatusOK {
			var errResp errorResponse
			if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", errResp.Code, errResp.Error)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("analyze failed with status %d", status)), nil
		}

		return mcp.NewToolResultText("Extracted Data:\n" + formatPayload(respBody)), nil
	}
}

func handleAnalyzePageTracked(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		imageURL := request.GetString("image_url", "")

		// Start the session.
		status, respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/sessions/analyze", analyzeRequest{
			URL:      url,
			ImageURL: imageURL,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("session start failed: %v", err)), nil
		}
		if status != http.StatusAccepted {
			var errResp errorResponse
			if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
				return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", errResp.Code, errResp.Error)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("session start failed with status %d", status)), nil
		}

		var startResp sessionStartResponse
		if err := json.Unmarshal(respBody, &startResp); err != nil || startResp.ID == "" {
			return mcp.NewToolResultError("failed to parse session start response"), nil
		}

		// Poll until the session reaches a terminal state.
		state, err := pollSession(ctx, client, apiURL, apiKey, startResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling session failed: %v", err)), nil
		}

		var sb strings.Builder
		if len(state.Logs) > 0 {
			sb.WriteString("Progress:\n")
			for _, line := range state.Logs {
				sb.WriteString("  " + line + "\n")
			}
			sb.WriteString("\n")
		}

		if state.Status == "error" {
			sb.WriteString("Analysis failed: " + state.Error)
			return mcp.NewToolResultError(sb.String()), nil
		}

		sb.WriteString("Extracted Data:\n" + formatPayload(state.Data))
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// pollSession polls the session endpoint until status is no longer
// "analyzing" or the context is cancelled.
func pollSession(ctx context.Context, client *http.Client, apiURL, apiKey, id string) (*sessionStateResponse, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			body, err := apiGet(ctx, client, apiURL, apiKey, "/api/sessions/"+id)
			if err != nil {
				return nil, err
			}

			var state sessionStateResponse
			if err := json.Unmarshal(body, &state); err != nil {
				return nil, fmt.Errorf("parse session state: %w", err)
			}

			if state.Status != "analyzing" {
				return &state, nil
			}
		}
	}
}
