// Package analyticsservice contains the shopstream analytics module: a
// fan-out consumer that archives order analytics events into a key-value
// store under time-ordered keys.
package analyticsservice
