/*
Package ports defines the driven ports (interfaces) for the Concierge engine.

These interfaces decouple the planning logic from external implementations,
allowing the engine to work with any travel data source and storage backend.

# Key Interfaces

  - TravelProvider: searches flights and hotels and executes bookings (mock or real).
  - StateStore: persists and loads session state.
  - DistributedLocker: provides distributed locking for concurrent session access.
*/
package ports
