/*
Package runner implements the chat loop and I/O orchestration for the Concierge.

It acts as the bridge between a conversation and the outside world: it reads a
message, sends it as a turn and presents the resulting actions through a
pluggable handler.

# Key Components

  - Runner: reads input, sends turns, and renders actions until EOF or "exit".
  - IOHandler: decouples how the conversation is shown (terminal, NDJSON).
  - TextHandler: interactive terminal chat with markdown tables and a spinner.
  - JSONHandler: one JSON array of actions per turn, for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithConversation(concierge.New()),
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
