package scan

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
)

var reportLineRE = regexp.MustCompile(
	`^Valve (\S+) has flow rate=(-?\d+); tunnels? leads? to valves? ?(.*)$`)

// ReadReport parses a scan report from r. Blank lines are skipped.
//
// A line that does not match the report grammar yields an INVALID_INPUT
// error naming its line number. ReadReport does not close r.
func ReadReport(r io.Reader) (*network.Network, error) {
	nodes, err := parseReport(r)
	if err != nil {
		return nil, err
	}
	return network.New(nodes)
}

func parseReport(r io.Reader) ([]network.Node, error) {
	var nodes []network.Node
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		nd, err := parseReportLine(text)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "line %d", line)
		}
		nodes = append(nodes, nd)
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read report")
	}
	return nodes, nil
}

func parseReportLine(text string) (network.Node, error) {
	m := reportLineRE.FindStringSubmatch(text)
	if m == nil {
		return network.Node{}, errs.New(errs.ErrCodeInvalidFormat, "unrecognized line %q", text)
	}
	rate, err := strconv.Atoi(m[2])
	if err != nil {
		return network.Node{}, errs.Wrap(errs.ErrCodeInvalidRate, err, "valve %s", m[1])
	}
	var tunnels []string
	for _, t := range strings.Split(m[3], ",") {
		if t = strings.TrimSpace(t); t != "" {
			tunnels = append(tunnels, t)
		}
	}
	return network.Node{ID: m[1], Rate: rate, Tunnels: tunnels}, nil
}

// WriteReport writes net in scan-report form, one line per node in
// registry order.
func WriteReport(net *network.Network, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, nd := range net.Nodes() {
		noun := "tunnels lead to valves"
		if len(nd.Tunnels) == 1 {
			noun = "tunnel leads to valve"
		}
		if _, err := bw.WriteString("Valve " + nd.ID + " has flow rate=" + strconv.Itoa(nd.Rate) +
			"; " + noun + " " + strings.Join(nd.Tunnels, ", ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
