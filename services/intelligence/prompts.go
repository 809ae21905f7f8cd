package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"

	"schooltrip/models"
)

const (
	ConfirmedBookingMarker = "[CONFIRMED_BOOKING]"

	ApologyText = "ბოდიში, ტექნიკური ხარვეზია. სცადეთ მოგვიანებით."

	messengerAck      = "გავიგე, მაქვს წვდომა ბაზის მონაცემებთან. მზად ვარ!"
	messengerFallback = "შენ ხარ School Trip Planner-ის ასისტენტი. ამჟამად ბაზასთან კავშირი შეფერხებულია, მაგრამ ეცადე ზოგადად დაეხმარო."
	siteChatAck       = "გავიგე, მზად ვარ!"
	siteDataFallback  = "ინფორმაციის წამოღება ვერ მოხერხდა."
)

// messengerPreamble renders the catalog as plain text for the Messenger bot.
func messengerPreamble(snap *models.CatalogSnapshot) string {
	if snap == nil {
		return messengerFallback
	}
	var sb strings.Builder
	sb.WriteString("შენ ხარ School Trip Planner-ის ასისტენტი. აი ჩვენი აქტუალური მონაცემები ბაზიდან:\n")
	sb.WriteString("ტურები:\n")
	for i, t := range snap.Tours {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s: %sლ, აღწერა: %s", t.Name, formatPrice(t.BasePrice), t.Description)
	}
	sb.WriteString("\nტრანსპორტი (ავტობუსები):\n")
	for i, b := range snap.Buses {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s (%d ადგილი)", b.Name, b.Capacity)
	}
	sb.WriteString("\nუპასუხე მოკლედ და მეგობრულად.")
	return sb.String()
}

// siteChatPrompt embeds the catalog as JSON together with the booking rules.
func siteChatPrompt(snap *models.CatalogSnapshot) string {
	data := siteDataFallback
	if snap != nil {
		tours, terr := json.Marshal(snap.Tours)
		buses, berr := json.Marshal(snap.Buses)
		if terr == nil && berr == nil {
			data = "აქტუალური ინფორმაცია ბაზიდან:\n" +
				"ტურები: " + string(tours) + "\n" +
				"ავტობუსები: " + string(buses) + "\n" +
				"მნიშვნელოვანი: თუ მომხმარებელს დაჯავშნა უნდა, კითხე: სახელი, ტელეფონი, რომელი ტური, ბავშვების რაოდენობა და თარიღი.\n" +
				"როცა ყველა ინფორმაციას მოგაწვდის, უთხარი რომ ბუქინგი იგზავნება."
		}
	}
	return "შენ ხარ SchoolTrip.ge-ს ასისტენტი.\n" + data + "\n\n" +
		"წესები:\n" +
		"- ყოველთვის დათვალე ჯამური ფასი (რაოდენობა * ფასი).\n" +
		"- ბუქინგისთვის გჭირდება: ტური, რაოდენობა, თარიღი, სახელი, ტელეფონი.\n" +
		"- როცა ყველაფერი გექნება, დაწერე: " + ConfirmedBookingMarker + "."
}

// StripMarker removes every confirmation marker from a reply.
func StripMarker(reply string) (string, bool) {
	if !strings.Contains(reply, ConfirmedBookingMarker) {
		return reply, false
	}
	return strings.TrimSpace(strings.ReplaceAll(reply, ConfirmedBookingMarker, "")), true
}

func formatPrice(p float64) string {
	if p == float64(int64(p)) {
		return fmt.Sprintf("%d", int64(p))
	}
	return fmt.Sprintf("%.2f", p)
}
