// Package orderingservice contains the shopstream order module: command
// production for order mutations, the order command consumer with its
// inventory adjustment, and the analytics event fan-out publish.
package orderingservice
