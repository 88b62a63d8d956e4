package report

// dashboardTemplate is the full static dashboard. The race-chart payload is
// embedded inline so the published page needs no further requests.
const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Top Wine Campaign Winners</title>
<style>
body { font-family: Georgia, serif; background: #fff; color: #1a1a1a; margin: 0 auto; max-width: 1280px; padding: 24px; }
h1, h2 { color: #a08b69; }
table { border-collapse: collapse; width: 100%; margin-bottom: 32px; font-size: 13px; }
th { background: #a08b69; color: #fff; padding: 6px 8px; text-align: left; }
td { border-bottom: 1px solid #e5e0d5; padding: 5px 8px; }
tr:nth-child(even) { background: #faf8f4; }
.num { text-align: right; }
.meta { color: #666; font-size: 13px; margin-bottom: 24px; }
.legend { font-size: 12px; color: #666; margin-bottom: 16px; }
#race-chart { min-height: 420px; }
</style>
</head>
<body>
<h1>Top Wine Campaign Winners</h1>
<p class="meta">
Generated {{.GeneratedAt}} &middot; {{.TotalCampaigns}} campaigns analyzed &middot;
Max conversion {{.MaxConversion}}% &middot; Max sales CHF {{.MaxSales}}<br>
Winner calculation: 60% conversion rate + 40% total sales amount
</p>

<h2 id="top-25">Top 25 Overall</h2>
<p class="legend">Price tiers: 🟢 Budget &middot; 🩷 Mid-range &middot; 💎 Premium &middot; 🟨 Luxury &middot; 🟣 Extra luxury &middot; ⚪ Unknown</p>
<table>
<thead><tr>
<th>#</th><th></th><th>Campaign</th><th>Wine</th><th>Producer</th><th>Start</th>
<th>Multiple</th><th class="num">Emails</th><th class="num">Customers</th>
<th class="num">Conv %</th><th class="num">Sales CHF</th><th class="num">Score</th>
</tr></thead>
<tbody>
{{range .Top25}}<tr>
<td>{{.Rank}}</td><td>{{.PriceEmoji}}</td><td>{{.CampaignNo}}</td><td>{{.Wine}}</td>
<td>{{.Producer}}</td><td>{{.StartDate}}</td><td>{{.Multiple}}</td>
<td class="num">{{.EmailSent}}</td><td class="num">{{.Customers}}</td>
<td class="num">{{.Conversion}}</td><td class="num">{{.Sales}}</td><td class="num">{{.Score}}</td>
</tr>{{end}}
</tbody>
</table>

{{range .Periods}}
<h2>{{.Name}}</h2>
<p class="legend">{{.PeriodCount}} campaigns in period{{if .Backfilled}} &middot; {{.Backfilled}} backfilled from overall ranking{{end}}</p>
<table>
<thead><tr>
<th>#</th><th></th><th></th><th>Campaign</th><th>Wine</th><th>Producer</th><th>Start</th>
<th class="num">Sales CHF</th><th class="num">Customers</th><th class="num">Conv %</th>
<th class="num">Score</th><th>Stock</th><th class="num">Overall</th>
</tr></thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Rank}}</td><td>{{.PriceEmoji}}</td><td>{{.StockEmoji}}</td><td>{{.CampaignNo}}</td>
<td>{{.Wine}}</td><td>{{.Producer}}</td><td>{{.StartDate}}</td>
<td class="num">{{.Sales}}</td><td class="num">{{.Customers}}</td><td class="num">{{.Conversion}}</td>
<td class="num">{{.Score}}</td><td>{{.StockStatus}}</td><td class="num">{{.OverallRank}}</td>
</tr>{{end}}
</tbody>
</table>
{{end}}

<h2 id="top-15">Top 15 Snapshot</h2>
<table>
<thead><tr>
<th>#</th><th></th><th>Campaign</th><th>Wine &amp; Vintage</th>
<th class="num">Conv %</th><th class="num">Sales CHF</th><th class="num">Customers</th><th class="num">Score</th>
</tr></thead>
<tbody>
{{range .Top15}}<tr>
<td>{{.Rank}}</td><td>{{.PriceEmoji}}</td><td>{{.CampaignNo}}</td><td>{{.Wine}}</td>
<td class="num">{{.Conversion}}</td><td class="num">{{.Sales}}</td>
<td class="num">{{.Customers}}</td><td class="num">{{.Score}}</td>
</tr>{{end}}
</tbody>
</table>

<h2>Race Chart</h2>
<div id="race-chart"></div>
<script id="race-data" type="application/json">{{.RaceJSON}}</script>
<script>
(function () {
  var payload = JSON.parse(document.getElementById('race-data').textContent);
  var chart = document.getElementById('race-chart');
  if (!payload.time_series.length) {
    chart.textContent = 'No historical snapshots yet.';
    return;
  }
  var frame = 0;
  function draw() {
    var point = payload.time_series[frame];
    var max = point.winners.length ? point.winners[0].value : 1;
    var html = '<p class="legend">' + point.analysis_date + ' (' + (frame + 1) + '/' + payload.time_series.length + ')</p>';
    point.winners.forEach(function (w) {
      var width = Math.max(2, Math.round(100 * w.value / max));
      html += '<div style="margin:2px 0;font-size:12px">' +
        '<span style="display:inline-block;width:260px">' + w.rank + '. ' + w.name + '</span>' +
        '<span style="display:inline-block;height:14px;background:' + w.color + ';width:' + width * 5 + 'px"></span> ' +
        w.value.toFixed(4) + '</div>';
    });
    chart.innerHTML = html;
    frame = (frame + 1) % payload.time_series.length;
  }
  draw();
  if (payload.time_series.length > 1) {
    setInterval(draw, 1500);
  }

  var socket;
  try {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    socket = new WebSocket(proto + location.host + '/ws/reload');
    socket.onmessage = function () { location.reload(); };
  } catch (e) { /* static hosting, no live reload */ }
})();
</script>
</body>
</html>
`
