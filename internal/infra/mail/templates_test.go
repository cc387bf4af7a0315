package mail

import (
	"strings"
	"testing"

	"delivery-app/internal/domain/delivery"
)

func TestDeliveryConfirmationHTML(t *testing.T) {
	html, err := DeliveryConfirmationHTML("Jane", "1 Main St", []delivery.Artwork{
		{WACCode: "WAC-100", Artist: "Jane Smith", Title: "Dusk", Status: delivery.StatusDelivered},
	})
	if err != nil {
		t.Fatalf("render confirmation: %v", err)
	}
	for _, want := range []string{"Dear Jane,", "Jane Smith", "Dusk", "Everard Read"} {
		if !strings.Contains(html, want) {
			t.Errorf("confirmation missing %q", want)
		}
	}
}

func TestDeliveryReportHTML(t *testing.T) {
	delivered := []delivery.Artwork{
		{WACCode: "WAC-100", Title: "Dusk", Status: delivery.StatusDelivered},
	}
	returned := []delivery.Artwork{
		{WACCode: "WAC-200", Status: delivery.StatusInTruck},
	}

	html, err := DeliveryReportHTML("Jane", "1 Main St", delivered, returned)
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	for _, want := range []string{"Jane", "1 Main St", "WAC-100", "WAC-200"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
	// Status labels are displayed with spaces, not underscores.
	if !strings.Contains(html, "in truck") {
		t.Errorf("report should label the returned item as in truck")
	}
	// Empty title falls back.
	if !strings.Contains(html, "Untitled") {
		t.Errorf("report should default a missing title to Untitled")
	}
}

func TestDeliveryReportHTMLEmptyPartitions(t *testing.T) {
	html, err := DeliveryReportHTML("Jane", "1 Main St", nil, nil)
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !strings.Contains(html, "No items delivered") {
		t.Errorf("report missing delivered fallback")
	}
	if !strings.Contains(html, "No items returned") {
		t.Errorf("report missing returned fallback")
	}
}
