package models

// MessengerWebhook is the body the Messenger platform posts to /webhook.
type MessengerWebhook struct {
	Object string           `json:"object"`
	Entry  []MessengerEntry `json:"entry"`
}

type MessengerEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

type MessagingEvent struct {
	Sender    MessengerParty    `json:"sender"`
	Recipient MessengerParty    `json:"recipient"`
	Message   *MessengerMessage `json:"message,omitempty"`
}

type MessengerParty struct {
	ID string `json:"id"`
}

type MessengerMessage struct {
	MID    string `json:"mid,omitempty"`
	Text   string `json:"text,omitempty"`
	IsEcho bool   `json:"is_echo,omitempty"`
}

// IncomingMessage is a text message queued for the bot.
type IncomingMessage struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}

// TextMessages extracts the first messaging event of every entry that
// carries text. Echoes of the page's own replies are skipped.
func (w MessengerWebhook) TextMessages() []IncomingMessage {
	var out []IncomingMessage
	for _, entry := range w.Entry {
		if len(entry.Messaging) == 0 {
			continue
		}
		ev := entry.Messaging[0]
		if ev.Message == nil || ev.Message.IsEcho || ev.Message.Text == "" || ev.Sender.ID == "" {
			continue
		}
		out = append(out, IncomingMessage{SenderID: ev.Sender.ID, Text: ev.Message.Text})
	}
	return out
}
