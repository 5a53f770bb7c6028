/*
Core implements the decision loop orchestrator.

# Module
  - market collector: polls venue prices into the shared history store
  - strategy registry: evaluates every registered strategy per symbol
  - risk engine: validates each signal against pre-trade limits
  - order gateway: forwards approved orders and tracks in-flight ones

# Source
 1. price history from ingest collectors
 2. depth snapshots fetched fresh each cycle

# Produce
  - orders to the venue client
  - trade journal records
*/
package core
