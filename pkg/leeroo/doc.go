// Package leeroo is a client for the Leeroo workflow-orchestration API.
//
// A Session authenticates once with an API key and then issues one HTTP round trip per
// call: initializing a workflow (a DAG of experiments) from a task description and seed
// data, submitting it, polling its status, and deploying or killing the resulting service.
// Planning, scheduling and execution all happen on the server. Responses are returned as
// decoded JSON maps whose shape is defined by the server.
//
//	s, err := leeroo.Authenticate(ctx, apiKey, leeroo.WithEndpoint(leeroo.Production))
//	if err != nil {
//		return err
//	}
//	cfg, err := s.InitializeWorkflow(ctx, "answer support tickets", "support-bot", "seed.json")
//	...
//	status, err := s.SubmitWorkflow(ctx, cfg)
package leeroo
