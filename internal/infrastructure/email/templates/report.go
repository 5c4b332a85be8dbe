// Package templates provides HTML email content builders.
package templates

import (
	"fmt"
	"strings"
)

// ReportEmailProps carries the values rendered into the digest email.
type ReportEmailProps struct {
	PeriodLabel string
	TotalEvents int
	TopEntities []ReportEntityRow
}

// ReportEntityRow is one line of the trending table in the digest.
type ReportEntityRow struct {
	EntityType string
	EntityID   string
	Score      int
}

// GetReportEmailContent renders the engagement digest body.
func GetReportEmailContent(props ReportEmailProps) string {
	var rows strings.Builder
	for _, row := range props.TopEntities {
		rows.WriteString(fmt.Sprintf(
			`<tr><td style="padding:4px 12px;">%s</td><td style="padding:4px 12px;">%s</td><td style="padding:4px 12px;text-align:right;">%d</td></tr>`,
			row.EntityType, row.EntityID, row.Score))
	}

	return fmt.Sprintf(`
		<h2 style="margin-bottom:8px;">Bellyfed engagement digest</h2>
		<p style="color:#555;">Period: %s &middot; %d events recorded</p>
		<table style="border-collapse:collapse;width:100%%;">
			<thead>
				<tr style="text-align:left;border-bottom:1px solid #ddd;">
					<th style="padding:4px 12px;">Type</th>
					<th style="padding:4px 12px;">Entity</th>
					<th style="padding:4px 12px;text-align:right;">Score</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>`,
		props.PeriodLabel, props.TotalEvents, rows.String())
}

// EmailLayoutProps wraps content in the shared layout.
type EmailLayoutProps struct {
	Content string
}

// GetEmailLayout wraps content in the standard email chrome.
func GetEmailLayout(props EmailLayoutProps) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
	<body style="font-family:sans-serif;max-width:600px;margin:0 auto;padding:24px;">
		%s
		<p style="color:#999;font-size:12px;margin-top:32px;">Sent by Bellyfed Analytics</p>
	</body>
</html>`, props.Content)
}
