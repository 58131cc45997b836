package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/harmony/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a direct GET against the music API and prints the response.
//
// Requests go through the session-aware client, so credential attachment
// matches the structured commands.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("GET %v", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeResponse(resp.StatusCode, resp.IsJSON, resp.JSONData, resp.Body, cmd.Bool("pretty"))
}

// APIPost performs a direct POST with a JSON body and prints the response.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	data := cmd.String("data")
	r.logger.Infof("POST %v", path)

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeResponse(resp.StatusCode, resp.IsJSON, resp.JSONData, resp.Body, true)
}

// APIDelete performs a direct DELETE and prints the response.
func (r *Runner) APIDelete(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}

	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("DELETE %v", path)

	resp, err := r.api.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeResponse(resp.StatusCode, resp.IsJSON, resp.JSONData, resp.Body, true)
}

// writeResponse prints a raw API response, as JSON when the body parses.
func (r *Runner) writeResponse(status int, isJSON bool, jsonData any, body []byte, pretty bool) error {
	r.writePlain("Status: %d\n", status)

	if isJSON {
		return r.writeJSON(jsonData, pretty)
	}

	return r.writePlain("%s\n", string(body))
}
