package notification

// WebhookPayload is the subset of the WhatsApp Business webhook body the relay reads.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	Messages []WebhookMessage `json:"messages"`
}

type WebhookMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text"`
}

// FirstText returns the sender and body of the first text message in the payload.
func (p *WebhookPayload) FirstText() (from, body string, ok bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return "", "", false
	}
	messages := p.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 || messages[0].Text == nil {
		return "", "", false
	}
	return messages[0].From, messages[0].Text.Body, true
}

// VerifySubscription answers the webhook GET handshake. It returns the challenge to echo when
// mode is "subscribe" and the token matches the configured one.
func VerifySubscription(mode, token, challenge, expected string) (string, bool) {
	if mode != "subscribe" || expected == "" || token != expected {
		return "", false
	}
	return challenge, true
}
