package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antagata/campaign-winners/internal/snapshot"
)

func TestFilter_ExcludesChannelsAndLeads(t *testing.T) {
	campaigns := []snapshot.Campaign{
		{CampaignNo: "C1", Type: "B2C", SubType: "Offer"},
		{CampaignNo: "C2", Type: "HORECA", SubType: "Offer", ConversionRate: 99, TotalSales: 1e6},
		{CampaignNo: "C3", Type: "TRADE"},
		{CampaignNo: "C4", Type: "B2C", SubType: "Lead"},
		{CampaignNo: "C5", Type: "B2C", SubType: "Offer"},
	}

	out := Filter(campaigns, DefaultFilterConfig())

	assert.Len(t, out, 2)
	assert.Equal(t, "C1", out[0].CampaignNo)
	assert.Equal(t, "C5", out[1].CampaignNo)
}

func TestFilter_HighMetricsDoNotRescueExcludedType(t *testing.T) {
	// An excluded channel stays excluded no matter how well it performed.
	campaigns := []snapshot.Campaign{
		{CampaignNo: "C1", Type: "HORECA", ConversionRate: 100, TotalSales: 999999},
	}

	out := Filter(campaigns, DefaultFilterConfig())
	assert.Empty(t, out)
}

func TestFilter_MissingTagsPass(t *testing.T) {
	campaigns := []snapshot.Campaign{
		{CampaignNo: "C1"},
		{CampaignNo: "C2", Type: "", SubType: ""},
	}

	out := Filter(campaigns, DefaultFilterConfig())
	assert.Len(t, out, 2)
}

func TestFilter_MatchingIsExact(t *testing.T) {
	campaigns := []snapshot.Campaign{
		{CampaignNo: "C1", Type: "horeca"},
		{CampaignNo: "C2", SubType: "lead"},
	}

	out := Filter(campaigns, DefaultFilterConfig())
	assert.Len(t, out, 2, "filter matching is case-sensitive")
}

func TestFilter_PreservesOrder(t *testing.T) {
	campaigns := []snapshot.Campaign{
		{CampaignNo: "C3", Type: "B2C"},
		{CampaignNo: "C1", Type: "TRADE"},
		{CampaignNo: "C2", Type: "B2C"},
		{CampaignNo: "C9", Type: "B2C"},
	}

	out := Filter(campaigns, DefaultFilterConfig())

	nos := make([]string, 0, len(out))
	for _, c := range out {
		nos = append(nos, c.CampaignNo)
	}
	assert.Equal(t, []string{"C3", "C2", "C9"}, nos)
}
