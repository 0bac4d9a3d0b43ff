// Command robonorm inspects robot demonstration capture directories,
// normalizes them into a canonical task/episode/frame structure, and records
// scan history in a local catalog.
package main
