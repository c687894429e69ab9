/*
Package concierge is a conversational trip planner: a chat that walks a user
from destination to date, through flight and hotel search, to a booked flight.

The conversation is a closed state machine. Each user message advances the
session exactly one step; search and booking go through a TravelProvider, which
defaults to a mock catalogue with simulated latency.

# Concept

The Concierge owns the sessions and the turn protocol. Hosts (the terminal chat,
the HTTP API, the MCP server) only move text in and ActionRequests out:

  - Send appends the user message, advances the state machine and records the
    textual reply in the transcript. Offer tables are never recorded; they are
    returned as actions for the current turn only.
  - Render redraws a session from scratch. While the user is choosing a flight
    the offers table is always part of the redraw.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/concierge"
	)

	func main() {
		c := concierge.New()
		ctx := context.Background()

		for _, msg := range []string{"Lisbon", "2025-06-15", "flights", "book the first one"} {
			turn, err := c.Send(ctx, "session-123", msg)
			if err != nil {
				log.Fatal(err)
			}
			for _, act := range turn.Actions {
				fmt.Println(act.Type, act.Payload)
			}
		}
	}
*/
package concierge
