//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/ahxxm-foodgamere/mutationboard"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// layoutRequest is the Function URL body shape: a raw catalog, a wishlist
// workload, and an optional unlocked-cells override. Omitting Unlocked
// means "every board cell is unlocked".
type layoutRequest struct {
	Catalog  map[mutationboard.MutationID]*mutationboard.RawMutation `json:"catalog"`
	Workload []mutationboard.WorkloadEntry                           `json:"workload"`
	Unlocked []mutationboard.Cell                                    `json:"unlocked,omitempty"`
	Seed     int64                                                   `json:"seed,omitempty"`
}

func fullBoard() []mutationboard.Cell {
	cells := make([]mutationboard.Cell, 0, mutationboard.BoardSize*mutationboard.BoardSize)
	for y := 0; y < mutationboard.BoardSize; y++ {
		for x := 0; x < mutationboard.BoardSize; x++ {
			cells = append(cells, mutationboard.Cell{X: x, Y: y})
		}
	}
	return cells
}

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req layoutRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if len(req.Catalog) == 0 {
		return errResp(400, "missing catalog field")
	}
	if len(req.Workload) == 0 {
		return errResp(400, "missing workload field")
	}

	unlocked := req.Unlocked
	if len(unlocked) == 0 {
		unlocked = fullBoard()
	}

	cfg := mutationboard.DefaultConfig()
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	out, err := mutationboard.Optimize(req.Catalog, req.Workload, unlocked, cfg)
	if err != nil {
		if errors.Is(err, mutationboard.ErrUnknownMutation) || errors.Is(err, mutationboard.ErrNegativeQuantity) {
			return errResp(400, err.Error())
		}
		return errResp(500, err.Error())
	}

	respJSON, err := json.Marshal(out)
	if err != nil {
		return errResp(500, "encode response: "+err.Error())
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
