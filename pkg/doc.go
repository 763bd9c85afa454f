// Package pkg provides the core libraries for archsketch, a diagram synthesis
// and merge engine for software architecture sketches.
//
// # Overview
//
// A user describes a system in plain language; a generative service proposes
// components and connections; archsketch folds the proposal into the
// existing diagram without duplicating what is already there. The pkg
// directory is organized as follows:
//
//  1. [diagram] - Nodes, edges and positions with value-semantics editing
//  2. [proposal] - Name-based proposals and the structured payload decoder
//  3. [synth] - Entity matching, type normalization, grid layout, merging
//     and the free-text fallback parser
//  4. [llm] - Generative service clients (Gemini, OpenAI, Ollama)
//  5. [assistant] - Sessions plus generation plus merge, guarded per session
//  6. [session], [cache] - Storage backends (file, memory, Redis, MongoDB)
//  7. [io], [render] - JSON snapshots and Graphviz exports
//
// # Architecture
//
// The typical data flow:
//
//	prompt + diagram summary
//	         ↓
//	    [llm] package (structured JSON or text lines)
//	         ↓
//	    [proposal] / [synth] packages (decode or parse)
//	         ↓
//	    [synth] package (match, normalize, place, merge)
//	         ↓
//	    [session] package (persist) → [render] package (export)
//
// # Quick Start
//
// Merge a payload into an empty diagram:
//
//	import (
//	    "github.com/matzehuels/archsketch/pkg/diagram"
//	    "github.com/matzehuels/archsketch/pkg/proposal"
//	    "github.com/matzehuels/archsketch/pkg/synth"
//	)
//
//	p, err := proposal.Decode(`{"components":[{"name":"API","type":"api-server"}],"connections":[]}`)
//	if err != nil {
//	    return err
//	}
//	d := synth.NewEngine().MergePayload(diagram.Diagram{}, p).Diagram()
//
// # Error Handling
//
// Errors carry a machine-readable code from [errors]; use errors.Is with a
// code to branch on failure kinds.
//
// [diagram]: github.com/matzehuels/archsketch/pkg/diagram
// [proposal]: github.com/matzehuels/archsketch/pkg/proposal
// [synth]: github.com/matzehuels/archsketch/pkg/synth
// [llm]: github.com/matzehuels/archsketch/pkg/llm
// [assistant]: github.com/matzehuels/archsketch/pkg/assistant
// [session]: github.com/matzehuels/archsketch/pkg/session
// [cache]: github.com/matzehuels/archsketch/pkg/cache
// [io]: github.com/matzehuels/archsketch/pkg/io
// [render]: github.com/matzehuels/archsketch/pkg/render
// [errors]: github.com/matzehuels/archsketch/pkg/errors
package pkg
