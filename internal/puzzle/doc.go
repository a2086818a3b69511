// Package puzzle holds the computations behind the three rooms: picking the
// most recent book, intersecting concept sets and walking the labyrinth.
//
// Nothing here touches the network or the result board; callers fetch the
// input documents and publish the outcome.
package puzzle
