package lmsr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func vector(vals ...string) []decimal.Decimal {
	q := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		q[i] = dec(v)
	}
	return q
}

func TestPricesStartEven(t *testing.T) {
	maker := New(decimal.NewFromInt(10))

	prices, err := maker.Prices(vector("0", "0"))
	require.NoError(t, err)
	require.Len(t, prices, 2)

	fifty := decimal.NewFromInt(50)
	assert.True(t, prices[0].Sub(fifty).Abs().LessThan(dec("0.000001")), "got %s", prices[0])
	assert.True(t, prices[1].Sub(fifty).Abs().LessThan(dec("0.000001")), "got %s", prices[1])
}

func TestPricesSumToScale(t *testing.T) {
	maker := New(decimal.NewFromInt(10))

	cases := [][]decimal.Decimal{
		vector("0", "0"),
		vector("5", "0"),
		vector("12.5", "-3.25", "7"),
		vector("100", "90", "80", "70"),
		vector("-40", "0"),
	}
	tolerance := dec("0.0000001")

	for _, q := range cases {
		prices, err := maker.Prices(q)
		require.NoError(t, err)

		sum := decimal.Zero
		for _, p := range prices {
			assert.True(t, p.IsPositive())
			sum = sum.Add(p)
		}
		assert.True(t, sum.Sub(PriceScale).Abs().LessThan(tolerance),
			"prices for %v sum to %s", q, sum)
	}
}

func TestCostToBuyIsPositive(t *testing.T) {
	maker := New(decimal.NewFromInt(10))

	cost, err := maker.CostToBuy(vector("0", "0"), 0, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, cost.IsPositive())
}

func TestCostIsPathIndependent(t *testing.T) {
	maker := New(decimal.NewFromInt(10))
	q := vector("0", "0")

	direct, err := maker.CostToBuy(q, 0, decimal.NewFromInt(5))
	require.NoError(t, err)

	first, err := maker.CostToBuy(q, 0, decimal.NewFromInt(2))
	require.NoError(t, err)
	second, err := maker.CostToBuy(Apply(q, 0, decimal.NewFromInt(2)), 0, decimal.NewFromInt(3))
	require.NoError(t, err)

	diff := direct.Sub(first.Add(second)).Abs()
	assert.True(t, diff.LessThan(dec("0.0000001")), "path dependence of %s", diff)
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	q := vector("1", "2")
	next := Apply(q, 1, decimal.NewFromInt(3))

	assert.True(t, q[1].Equal(dec("2")))
	assert.True(t, next[1].Equal(dec("5")))
	assert.True(t, next[0].Equal(q[0]))
}

func TestMaxLoss(t *testing.T) {
	maker := New(decimal.NewFromInt(10))

	loss, err := maker.MaxLoss(2)
	require.NoError(t, err)

	// b * ln(2) with b=10.
	assert.True(t, loss.Sub(dec("6.9314718")).Abs().LessThan(dec("0.0001")), "got %s", loss)
}

func TestNewDefaultsNonPositiveLiquidity(t *testing.T) {
	maker := New(decimal.Zero)
	assert.True(t, maker.B.Equal(decimal.NewFromInt(100)))
}
