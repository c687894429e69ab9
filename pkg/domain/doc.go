/*
Package domain contains the core domain models of the Concierge trip planner.

It defines the entities the planning state machine works with and is kept free
of I/O and persistence concerns, following Hexagonal Architecture principles.

# Key Entities

  - Step: the closed set of conversation steps (destination, date, presenting, selecting, booked).
  - Preferences: what the user asked for and what the provider returned.
  - FlightOffer / HotelOffer: immutable priced options produced by a provider.
  - Transcript: append-only, role-tagged log of the conversation.
  - SessionState: the runtime snapshot of one conversation.
  - Reply: the state machine output, either text or a directive to show offers.
  - ActionRequest: a structural representation of what the host should render.
*/
package domain
