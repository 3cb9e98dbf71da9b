package report

// htmlTemplate is the dashboard page.
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta name="report-id" content="{{ .ID }}">
    <title>{{ .Title | default "JMeter Dashboard" }} - Dashboard</title>
    <script src="{{ .EchartsURL }}"></script>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --bg-card: #ffffff;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --text-muted: #94a3b8;
            --border-color: #e2e8f0;
            --accent-pass: #9acd32;
            --accent-fail: #ff6347;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.1);
        }

        [data-theme="dark"] {
            --bg-primary: #0f172a;
            --bg-secondary: #1e293b;
            --bg-card: #1e293b;
            --text-primary: #f1f5f9;
            --text-secondary: #94a3b8;
            --text-muted: #64748b;
            --border-color: #334155;
            --shadow: 0 1px 3px rgba(0, 0, 0, 0.3);
        }

        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }

        .container {
            max-width: 1600px;
            margin: 0 auto;
            padding: 2rem;
        }

        .header,
        .section {
            background: var(--bg-card);
            border-radius: 12px;
            padding: 1.5rem 2rem;
            margin-bottom: 2rem;
            box-shadow: var(--shadow);
        }

        .header {
            display: flex;
            justify-content: space-between;
            align-items: center;
            flex-wrap: wrap;
            gap: 1rem;
        }

        .header h1 {
            font-size: 1.75rem;
            font-weight: 700;
        }

        .meta {
            display: flex;
            gap: 2rem;
            font-size: 0.875rem;
            color: var(--text-muted);
        }

        .filters {
            font-size: 0.8rem;
            color: var(--text-secondary);
        }

        .theme-toggle {
            background: var(--bg-secondary);
            border: 1px solid var(--border-color);
            border-radius: 8px;
            padding: 0.5rem;
            cursor: pointer;
            color: var(--text-secondary);
        }

        .section-title {
            font-size: 1.125rem;
            font-weight: 600;
            margin-bottom: 1rem;
        }

        .dashboard-table {
            width: 100%;
            border-collapse: collapse;
        }

        .dashboard-table th,
        .dashboard-table td {
            padding: 0.5rem 0.75rem;
            text-align: left;
            border-bottom: 1px solid var(--border-color);
            font-size: 0.85rem;
        }

        .dashboard-table th {
            font-size: 0.75rem;
            text-transform: uppercase;
            letter-spacing: 0.05em;
            color: var(--text-muted);
            font-weight: 600;
        }

        .dashboard-table tr.group th {
            text-align: center;
            border-bottom: 2px solid var(--border-color);
        }

        .dashboard-table tr.titles th {
            cursor: pointer;
        }

        .dashboard-table tr.overall td {
            font-weight: 600;
            background: var(--bg-secondary);
        }

        .dashboard-table tr.controller td {
            font-style: italic;
        }

        .footer {
            text-align: center;
            padding: 1rem;
            color: var(--text-muted);
            font-size: 0.75rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <header class="header">
            <div>
                <h1>{{ .Title | default "JMeter Dashboard" }}</h1>
                <div class="meta">
                    {{- if not .Dashboard.TestStart.IsZero }}
                    <span>Start: {{ date "2006-01-02 15:04:05" .Dashboard.TestStart }}</span>
                    {{- end }}
                    {{- if not .Dashboard.TestEnd.IsZero }}
                    <span>End: {{ date "2006-01-02 15:04:05" .Dashboard.TestEnd }}</span>
                    {{- end }}
                    <span>Duration: {{ formatDuration .Dashboard.Duration }}</span>
                </div>
                <div class="filters">
                    Controllers only: {{ ternary "yes" "no" .Filters.ShowControllersOnly }}
                    {{- if not (empty .Filters.SeriesFilter) }} &middot; Series filter: <code>{{ .Filters.SeriesFilter }}</code>{{ end }}
                    {{- if .Filters.FiltersOnlySampleSeries }} &middot; Filter applies to samples only{{ end }}
                </div>
            </div>
            <button class="theme-toggle" onclick="toggleTheme()" title="Toggle dark mode">Theme</button>
        </header>

        <section class="section" id="requestsSummarySection">
            <h2 class="section-title">Requests Summary</h2>
            {{ .Chart.Element }}
        </section>
        {{- range .Tables }}

        <section class="section">
            <h2 class="section-title">{{ sectionTitle .ID }}</h2>
            <table class="dashboard-table" id="{{ .ID }}" data-sort="{{ sortList .Sort }}">
                <thead>
                    {{- if .GroupHeader }}
                    <tr class="group">
                        {{- range .GroupHeader }}
                        <th colspan="{{ .Span }}">{{ .Label }}</th>
                        {{- end }}
                    </tr>
                    {{- end }}
                    <tr class="titles">
                        {{- range $i, $title := .Titles }}
                        <th data-col="{{ $i }}">{{ $title }}</th>
                        {{- end }}
                    </tr>
                </thead>
                {{- with .Overall }}
                <tbody class="tablesorter-no-sort">
                    <tr class="overall">
                        {{- range .Cells }}
                        <td>{{ . }}</td>
                        {{- end }}
                    </tr>
                </tbody>
                {{- end }}
                <tbody class="sortable">
                    {{- range $row := .SortedRows }}
                    <tr{{ if $row.IsController }} class="controller"{{ end }}>
                        {{- range $i, $cell := $row.Cells }}
                        <td data-value="{{ rawAt $row $i }}">{{ $cell }}</td>
                        {{- end }}
                    </tr>
                    {{- end }}
                </tbody>
            </table>
        </section>
        {{- end }}

        <footer class="footer">
            <p>Generated by jmdash &middot; {{ date "2006-01-02 15:04:05 MST" .GeneratedAt }} &middot; {{ .ID | trunc 8 }}</p>
        </footer>
    </div>

    {{ .Chart.Script }}
    <script>
        function toggleTheme() {
            const html = document.documentElement;
            const newTheme = html.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
            html.setAttribute('data-theme', newTheme);
            localStorage.setItem('theme', newTheme);
        }

        document.documentElement.setAttribute('data-theme', localStorage.getItem('theme') || 'light');

        // Numbers sort before strings, strings compare case-insensitively.
        function compareValues(a, b) {
            const aNum = a !== '' && isFinite(a);
            const bNum = b !== '' && isFinite(b);
            if (aNum && bNum) return parseFloat(a) - parseFloat(b);
            if (aNum) return -1;
            if (bNum) return 1;
            return a.toLowerCase().localeCompare(b.toLowerCase());
        }

        function sortTable(table, keys) {
            const body = table.querySelector('tbody.sortable');
            const rows = Array.from(body.rows);
            rows.sort(function (x, y) {
                for (const [col, dir] of keys) {
                    const c = compareValues(
                        x.cells[col].getAttribute('data-value'),
                        y.cells[col].getAttribute('data-value'));
                    if (c !== 0) return dir === 1 ? -c : c;
                }
                return 0;
            });
            rows.forEach(function (r) { body.appendChild(r); });
        }

        document.querySelectorAll('table.dashboard-table').forEach(function (table) {
            let keys = (table.dataset.sort || '').split(',').filter(Boolean).map(function (k) {
                return k.split(':').map(Number);
            });
            table.querySelectorAll('tr.titles th').forEach(function (th) {
                th.addEventListener('click', function () {
                    const col = Number(th.dataset.col);
                    const dir = keys.length === 1 && keys[0][0] === col && keys[0][1] === 0 ? 1 : 0;
                    keys = [[col, dir]];
                    sortTable(table, keys);
                });
            });
        });
    </script>
</body>
</html>
`
