// Package freight models the Order Ledger as seen by the settlement engine:
// dispatched freight orders with their shipper, carrier, agreed amounts and
// pickup and delivery dates. Orders are read-only here.
package freight
