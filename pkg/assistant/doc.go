// Package assistant runs the design conversation for a session.
//
// A [Service] ties the pieces together so the CLI, the chat TUI and the HTTP
// API share one code path:
//
//  1. Load: fetch the session (or start a new one)
//  2. Generate: ask the generative service for a proposal, passing the
//     current diagram's summary as context
//  3. Decode: repair and validate a structured payload, or parse free text
//  4. Merge: reconcile the proposal with the diagram
//  5. Save: record the reply and persist the session
//
// A failed generation or an invalid payload leaves the diagram untouched and
// is recorded in the transcript with the same wording the user sees.
//
// # Usage
//
//	svc := assistant.New(store, generator, logger)
//	out, err := svc.Submit(ctx, "default", "add a redis cache in front of the database")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.Reply, len(out.Diagram.Nodes))
//
// Proposals that do not need the service can be merged directly:
//
//	out, err := svc.Apply(ctx, "default", payloadJSON)
//	out, err := svc.Ingest(ctx, "default", "add a database called Users DB")
package assistant
