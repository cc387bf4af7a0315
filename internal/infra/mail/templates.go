package mail

import (
	"bytes"
	"html/template"
	"strings"

	"delivery-app/internal/domain/delivery"
)

const layoutHTML = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>{{.Title}}</title>
  </head>
  <body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5; color: #1a1a1a; margin: 0; padding: 0; line-height: 1.6;">
    <div style="width: 100%; max-width: 600px; margin: 30px auto; background-color: #ffffff; padding: 32px; border-radius: 12px;">
      <div style="margin-bottom: 24px; text-align: center; border-bottom: 2px solid #f0f0f0; padding-bottom: 20px;">
        <h1 style="color: #1a1a1a; font-size: 24px; font-weight: 700; margin: 0;">{{.Title}}</h1>
      </div>
      {{.Content}}
      <div style="margin-top: 32px; padding-top: 20px; border-top: 1px solid #f0f0f0; text-align: center; color: #888; font-size: 14px;">
        Everard Read
      </div>
    </div>
  </body>
</html>`

const confirmationHTML = `
    <p style="color: #4a4a4a; font-size: 16px;">Dear {{.ClientName}},</p>
    <p style="color: #4a4a4a; font-size: 16px;">Herewith is a receipt to confirm that we have delivered the following items:</p>
    <ul style="list-style: none; padding: 0; margin: 16px 0;">
      {{range .Delivered}}
      <li style="padding: 12px; border-bottom: 1px solid #f0f0f0; font-size: 15px;">
        <span style="color: #333; font-weight: 600;">{{.Artist}}</span><br/>
        <span style="color: #555;">{{.Title}}</span>
      </li>
      {{end}}
    </ul>
    <p style="color: #4a4a4a; font-size: 16px; margin-top: 30px;">
      Thank you so much,<br/>
      <strong>Everard Read</strong>
    </p>`

const reportHTML = `
    <div style="margin-bottom: 20px; background: #f9f9f9; padding: 15px; border-radius: 8px;">
      <p style="margin: 5px 0; color: #666; font-size: 14px;">CLIENT</p>
      <p style="color: #4a4a4a; font-size: 16px; margin: 0; font-weight: 600;">{{.ClientName}}</p>
      <p style="margin: 15px 0 5px 0; color: #666; font-size: 14px;">ADDRESS</p>
      <p style="color: #4a4a4a; font-size: 16px; margin: 0; font-weight: 600;">{{.Address}}</p>
    </div>
    <h2 style="color: #404040; font-size: 18px; font-weight: 600;">Delivered Items</h2>
    <ul style="list-style: none; padding: 0; margin: 16px 0;">
      {{if .Delivered}}{{range .Delivered}}
      <li style="padding: 12px; border-bottom: 1px solid #f0f0f0; font-size: 15px;">
        <strong>{{.WACCode}}</strong>
        <div style="color: #666;">{{.Title}}</div>
      </li>
      {{end}}{{else}}<li style="padding: 10px; color: #888; font-style: italic;">No items delivered</li>{{end}}
    </ul>
    <h2 style="color: #404040; font-size: 18px; font-weight: 600;">Returned / Not Delivered</h2>
    <ul style="list-style: none; padding: 0; margin: 16px 0;">
      {{if .Returned}}{{range .Returned}}
      <li style="padding: 12px; border-bottom: 1px solid #f0f0f0; font-size: 15px; border-left: 3px solid #ef4444; padding-left: 15px;">
        <strong>{{.WACCode}}</strong> - <span style="color: #ef4444; font-weight: 600; text-transform: uppercase; font-size: 12px;">{{.StatusLabel}}</span>
        <div style="color: #666;">{{.Title}}</div>
      </li>
      {{end}}{{else}}<li style="padding: 10px; color: #888; font-style: italic;">No items returned</li>{{end}}
    </ul>`

var (
	layoutTmpl       = template.Must(template.New("layout").Parse(layoutHTML))
	confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationHTML))
	reportTmpl       = template.Must(template.New("report").Parse(reportHTML))
)

type reportItem struct {
	WACCode     string
	Artist      string
	Title       string
	StatusLabel string
}

func toReportItems(artworks []delivery.Artwork) []reportItem {
	items := make([]reportItem, 0, len(artworks))
	for _, a := range artworks {
		artist := a.Artist
		if artist == "" {
			artist = "Unknown Artist"
		}
		title := a.Title
		if title == "" {
			title = "Untitled"
		}
		items = append(items, reportItem{
			WACCode:     a.WACCode,
			Artist:      artist,
			Title:       title,
			StatusLabel: strings.ReplaceAll(string(a.Status), "_", " "),
		})
	}
	return items
}

func wrap(title string, content string) (string, error) {
	var buf bytes.Buffer
	err := layoutTmpl.Execute(&buf, struct {
		Title   string
		Content template.HTML
	}{Title: title, Content: template.HTML(content)})
	return buf.String(), err
}

// DeliveryConfirmationHTML renders the client-facing receipt.
func DeliveryConfirmationHTML(clientName, address string, delivered []delivery.Artwork) (string, error) {
	var buf bytes.Buffer
	err := confirmationTmpl.Execute(&buf, struct {
		ClientName string
		Address    string
		Delivered  []reportItem
	}{ClientName: clientName, Address: address, Delivered: toReportItems(delivered)})
	if err != nil {
		return "", err
	}
	return wrap("Delivery Confirmation", buf.String())
}

// DeliveryReportHTML renders the admin report with both partitions.
func DeliveryReportHTML(clientName, address string, delivered, returned []delivery.Artwork) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, struct {
		ClientName string
		Address    string
		Delivered  []reportItem
		Returned   []reportItem
	}{ClientName: clientName, Address: address, Delivered: toReportItems(delivered), Returned: toReportItems(returned)})
	if err != nil {
		return "", err
	}
	return wrap("Delivery Report", buf.String())
}
