/*
Package session serializes access to conversation state.

A Manager holds one mutex per active session, created on demand and garbage
collected by reference counting. When several replicas share a store, a
DistributedLocker is taken as well, so a turn is applied by exactly one process.
*/
package session
