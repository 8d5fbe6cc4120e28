package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3movement/dealfinder/internal/domain"
)

func run(id int, totalSwappa, totalEbay int, opps ...domain.Opportunity) domain.RunSnapshot {
	return domain.RunSnapshot{
		RunID:         id,
		TotalSwappa:   totalSwappa,
		TotalEbaySold: totalEbay,
		Opportunities: opps,
	}
}

func TestCompareRunsSelfComparison(t *testing.T) {
	a := run(7, 10, 20)
	b := run(7, 99, 99)

	_, err := CompareRuns(a, b)
	assert.ErrorIs(t, err, domain.ErrInvalidComparison)
}

func TestCompareRunsMetricDeltas(t *testing.T) {
	a := run(1, 10, 30, opp("x", 5, f64(2)))
	b := run(2, 14, 25, opp("x", 6, f64(3)), opp("y", 7, f64(4)))

	got, err := CompareRuns(a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RunA)
	assert.Equal(t, 2, got.RunB)

	require.Len(t, got.Metrics, 3)
	byName := map[string]domain.MetricDelta{}
	for _, m := range got.Metrics {
		byName[m.Name] = m
	}
	assert.Equal(t, 4.0, byName["total_swappa"].Delta)
	assert.Equal(t, -5.0, byName["total_ebay_sold"].Delta)
	assert.Equal(t, 1.0, byName["opportunity_count"].Delta)
	assert.Equal(t, 10.0, byName["total_swappa"].ValueA)
	assert.Equal(t, 14.0, byName["total_swappa"].ValueB)
}

// Deltas are antisymmetric: compare(A,B).delta == -compare(B,A).delta.
func TestCompareRunsAntisymmetric(t *testing.T) {
	a := run(1, 12, 40, opp("x", 5, f64(2)))
	b := run(2, 8, 55)

	ab, err := CompareRuns(a, b)
	require.NoError(t, err)
	ba, err := CompareRuns(b, a)
	require.NoError(t, err)

	require.Equal(t, len(ab.Metrics), len(ba.Metrics))
	for i := range ab.Metrics {
		assert.Equal(t, ab.Metrics[i].Name, ba.Metrics[i].Name)
		assert.Equal(t, ab.Metrics[i].Delta, -ba.Metrics[i].Delta, ab.Metrics[i].Name)
	}
}

func TestCompareRunsProductDiff(t *testing.T) {
	a := run(1, 0, 0,
		opp("both", 10, f64(5)),
		opp("only-a", 20, f64(15)),
	)
	b := run(2, 0, 0,
		opp("both", 12, f64(8)),
		opp("only-b", 30, f64(25)),
	)

	got, err := CompareRuns(a, b)
	require.NoError(t, err)

	// Union of names, sorted.
	require.Len(t, got.Products, 3)
	assert.Equal(t, "both", got.Products[0].BuyProductName)
	assert.Equal(t, "only-a", got.Products[1].BuyProductName)
	assert.Equal(t, "only-b", got.Products[2].BuyProductName)

	both := got.Products[0]
	require.NotNil(t, both.MarginA)
	require.NotNil(t, both.MarginB)
	assert.Equal(t, 5.0, *both.MarginA)
	assert.Equal(t, 8.0, *both.MarginB)

	onlyA := got.Products[1]
	require.NotNil(t, onlyA.MarginA)
	assert.Nil(t, onlyA.MarginB)

	onlyB := got.Products[2]
	assert.Nil(t, onlyB.MarginA)
	require.NotNil(t, onlyB.MarginB)
}

// Duplicate product names within one run resolve last-write-wins.
func TestCompareRunsDuplicateNamesLastWriteWins(t *testing.T) {
	a := run(1, 0, 0,
		opp("dup", 10, f64(5)),
		opp("dup", 10, f64(9)),
	)
	b := run(2, 0, 0, opp("dup", 10, f64(7)))

	got, err := CompareRuns(a, b)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	require.NotNil(t, got.Products[0].MarginA)
	assert.Equal(t, 9.0, *got.Products[0].MarginA)
}
