// Command keyspace-inspect builds a keyspace from a local node manifest and
// prints its resulting shard assignment, or the migration plan produced by
// applying a manifest of changes. Unlike arena-cache-inspect (its sibling in
// the teacher repo), this tool never talks to a running process over HTTP:
// the keyspace library has no server component and no wire format (see
// SPEC_FULL.md's restated Non-goals), so there is nothing to poll. Instead
// it embeds the library directly and operates on manifests read from disk,
// keeping the same flag-driven, pretty-or-JSON output shape as the teacher's
// inspector.
//
// © 2025 keyspace authors. MIT License.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	keyspace "github.com/farazdagi/keyspace/pkg"
)

var version = "dev"

type options struct {
	manifest string
	updates  string
	rf       int
	zoneAware bool
	asJSON   bool
	shard    int
	showVersion bool
}

func parseFlags() *options {
	opts := &options{}
	flag.StringVar(&opts.manifest, "manifest", "", "path to a JSON node manifest: [{\"id\":\"node0\",\"capacity\":1,\"zone\":\"z1\"}, ...]")
	flag.StringVar(&opts.updates, "updates", "", "optional path to a JSON update manifest: {\"add\":[...], \"remove\":[\"id\", ...]}")
	flag.IntVar(&opts.rf, "rf", 3, "replication factor")
	flag.BoolVar(&opts.zoneAware, "zone-aware", false, "use the distinct-zone replication strategy")
	flag.BoolVar(&opts.asJSON, "json", false, "emit JSON instead of a pretty summary")
	flag.IntVar(&opts.shard, "shard", -1, "print only the replica set for this shard index")
	flag.BoolVar(&opts.showVersion, "version", false, "print the tool version and exit")
	flag.Parse()
	return opts
}

type manifestNode struct {
	NodeID   string `json:"id"`
	NodeCap  int    `json:"capacity"`
	NodeZone string `json:"zone"`
}

type updateManifest struct {
	Add    []manifestNode `json:"add"`
	Remove []string       `json:"remove"`
}

func toNode(n manifestNode) keyspace.Node[string] {
	if n.NodeZone != "" {
		return zonedManifestNode(n)
	}
	cap := n.NodeCap
	if cap <= 0 {
		cap = 1
	}
	return keyspace.WeightedStringNode{Id: n.NodeID, Cap: cap}
}

type zonedManifestNode manifestNode

func (n zonedManifestNode) ID() string   { return n.NodeID }
func (n zonedManifestNode) Zone() string { return n.NodeZone }
func (n zonedManifestNode) Capacity() int {
	if n.NodeCap <= 0 {
		return 1
	}
	return n.NodeCap
}

func main() {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Println(version)
		return
	}
	if opts.manifest == "" {
		fatal(fmt.Errorf("-manifest is required"))
	}

	nodes, err := loadManifest(opts.manifest)
	if err != nil {
		fatal(err)
	}

	ksOpts := []keyspace.Option[string]{keyspace.WithReplicationFactor[string](opts.rf)}
	if opts.zoneAware {
		ksOpts = append(ksOpts, keyspace.WithReplicationStrategy[string](keyspace.NewZoneAwareStrategy[string]()))
	}

	ks, err := keyspace.New(nodes, ksOpts...)
	if err != nil {
		fatal(err)
	}

	if opts.updates != "" {
		upd, err := loadUpdates(opts.updates)
		if err != nil {
			fatal(err)
		}
		add := make([]keyspace.Node[string], len(upd.Add))
		for i, n := range upd.Add {
			add[i] = toNode(n)
		}
		plan, err := ks.UpdateNodes(add, upd.Remove)
		if err != nil {
			fatal(err)
		}
		if err := printPlan(plan, opts); err != nil {
			fatal(err)
		}
		return
	}

	if err := printKeyspace(ks, opts); err != nil {
		fatal(err)
	}
}

func loadManifest(path string) ([]keyspace.Node[string], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []manifestNode
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	nodes := make([]keyspace.Node[string], len(entries))
	for i, e := range entries {
		nodes[i] = toNode(e)
	}
	return nodes, nil
}

func loadUpdates(path string) (*updateManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var upd updateManifest
	if err := json.Unmarshal(raw, &upd); err != nil {
		return nil, err
	}
	return &upd, nil
}

func printKeyspace(ks *keyspace.Keyspace[string], opts *options) error {
	if opts.shard >= 0 {
		return printShard(ks, keyspace.ShardIdx(opts.shard), opts)
	}

	summary := struct {
		Version   uint64 `json:"version"`
		NodeCount int    `json:"node_count"`
	}{ks.Version(), ks.NodeCount()}

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	fmt.Printf("Version:    %d\n", summary.Version)
	fmt.Printf("Node count: %d\n", summary.NodeCount)
	return nil
}

func printShard(ks *keyspace.Keyspace[string], idx keyspace.ShardIdx, opts *options) error {
	set := ks.Replicas(idx)
	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(set.IDs())
	}
	fmt.Printf("Shard %d: %v (primary: %s)\n", idx, set.IDs(), set.Primary())
	return nil
}

func printPlan(plan *keyspace.MigrationPlan[string], opts *options) error {
	if opts.asJSON {
		out := make(map[string][]struct {
			Range   string   `json:"range"`
			Sources []string `json:"sources"`
		})
		for _, target := range plan.Targets() {
			for _, interval := range plan.Pulls(target) {
				out[target] = append(out[target], struct {
					Range   string   `json:"range"`
					Sources []string `json:"sources"`
				}{interval.Range.String(), interval.Sources})
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if plan.IsEmpty() {
		fmt.Println("no migration required")
		return nil
	}
	for _, target := range plan.Targets() {
		intervals := plan.Pulls(target)
		fmt.Printf("%s: %d interval(s) to pull\n", target, len(intervals))
		for _, interval := range intervals {
			fmt.Printf("  %s from %v\n", interval.Range, interval.Sources)
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
