// Package scan reads and writes valve networks.
//
// Three input formats are supported:
//
//   - Scan reports, one valve per line:
//
//     Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//
//   - JSON, the canonical format used for caching and the HTTP API:
//
//     {"nodes": [{"id": "AA", "rate": 0, "tunnels": ["DD", "II", "BB"]}]}
//
//   - TOML, one [[node]] table per valve.
//
// Every reader validates its result through [network.New], so a returned
// network is always well formed. [ReadFile] picks a reader by file extension.
package scan
