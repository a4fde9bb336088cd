package dedup_test

import (
	"testing"

	"folio/internal/dedup"
)

func mustRecord(t *testing.T, kind dedup.Kind, id int64, display string) dedup.Record {
	t.Helper()
	rec, ok := dedup.Canonicalize(kind, id, display)
	if !ok {
		t.Fatalf("Canonicalize(%q) excluded the record", display)
	}
	return rec
}

func TestBuildClustersGroupsVariants(t *testing.T) {
	records := []dedup.Record{
		mustRecord(t, dedup.KindPerson, 1, "Stephen King"),
		mustRecord(t, dedup.KindPerson, 2, "Stephen Edwin King"),
		mustRecord(t, dedup.KindPerson, 3, "King, Stephen"),
		mustRecord(t, dedup.KindPerson, 4, "Italo Calvino"),
	}

	clusters := dedup.BuildClusters(records, dedup.DefaultThreshold)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1: %+v", len(clusters), clusters)
	}
	ids := memberIDs(clusters[0])
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Fatalf("cluster members = %v, want [1 2 3]", ids)
	}
	if clusters[0].Edges < 2 {
		t.Fatalf("edges = %d, want at least 2", clusters[0].Edges)
	}
}

func TestBuildClustersUnrelatedNamesStayApart(t *testing.T) {
	records := []dedup.Record{
		mustRecord(t, dedup.KindPerson, 1, "Italo Calvino"),
		mustRecord(t, dedup.KindPerson, 2, "Umberto Eco"),
	}
	clusters := dedup.BuildClusters(records, dedup.DefaultThreshold)
	if len(clusters) != 0 {
		t.Fatalf("unrelated names clustered: %+v", clusters)
	}
}

func TestBuildClustersDisjointMembership(t *testing.T) {
	records := []dedup.Record{
		mustRecord(t, dedup.KindPublisher, 1, "Penguin Books"),
		mustRecord(t, dedup.KindPublisher, 2, "Penguin Boooks"),
		mustRecord(t, dedup.KindPublisher, 3, "Oxford University Press"),
		mustRecord(t, dedup.KindPublisher, 4, "Oxford Univerity Press"),
		mustRecord(t, dedup.KindPublisher, 5, "Tor"),
	}
	clusters := dedup.BuildClusters(records, dedup.DefaultThreshold)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2: %+v", len(clusters), clusters)
	}
	seen := make(map[int64]bool)
	for _, cluster := range clusters {
		if len(cluster.Members) < 2 {
			t.Fatalf("singleton cluster emitted: %+v", cluster)
		}
		for _, id := range memberIDs(cluster) {
			if seen[id] {
				t.Fatalf("id %d appears in more than one cluster", id)
			}
			seen[id] = true
		}
	}
	if seen[5] {
		t.Fatal("singleton record 5 should be dropped")
	}
}

func TestBuildClustersDeterministicOrder(t *testing.T) {
	records := []dedup.Record{
		mustRecord(t, dedup.KindTag, 42, "science fiction"),
		mustRecord(t, dedup.KindTag, 7, "science-fiction"),
	}
	reversed := []dedup.Record{records[1], records[0]}

	a := dedup.BuildClusters(records, dedup.DefaultThreshold)
	b := dedup.BuildClusters(reversed, dedup.DefaultThreshold)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected one cluster from both orders, got %d and %d", len(a), len(b))
	}
	aIDs, bIDs := memberIDs(a[0]), memberIDs(b[0])
	for i := range aIDs {
		if aIDs[i] != bIDs[i] {
			t.Fatalf("cluster order differs across input orders: %v vs %v", aIDs, bIDs)
		}
	}
}

func memberIDs(c dedup.Cluster) []int64 {
	ids := make([]int64, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.ID)
	}
	return ids
}
