package enums

// WebhookTopic identifies a Shopify webhook topic handled by the ingestion
// pipeline. Topics outside this set are logged and dropped.
type WebhookTopic string

const (
	TopicOrdersCreate    WebhookTopic = "orders/create"
	TopicOrdersUpdated   WebhookTopic = "orders/updated"
	TopicCustomersCreate WebhookTopic = "customers/create"
	TopicCustomersUpdate WebhookTopic = "customers/update"
	TopicProductsCreate  WebhookTopic = "products/create"
	TopicProductsUpdate  WebhookTopic = "products/update"
	TopicCheckoutsCreate WebhookTopic = "checkouts/create"
	TopicCheckoutsUpdate WebhookTopic = "checkouts/update"
	TopicCartsCreate     WebhookTopic = "carts/create"
	TopicCartsUpdate     WebhookTopic = "carts/update"
	TopicRefundsCreate   WebhookTopic = "refunds/create"
)

var handledTopics = []WebhookTopic{
	TopicOrdersCreate,
	TopicOrdersUpdated,
	TopicCustomersCreate,
	TopicCustomersUpdate,
	TopicProductsCreate,
	TopicProductsUpdate,
	TopicCheckoutsCreate,
	TopicCheckoutsUpdate,
	TopicCartsCreate,
	TopicCartsUpdate,
	TopicRefundsCreate,
}

// String implements fmt.Stringer.
func (t WebhookTopic) String() string {
	return string(t)
}

// IsHandled reports whether the topic maps to a registered handler.
func (t WebhookTopic) IsHandled() bool {
	for _, candidate := range handledTopics {
		if candidate == t {
			return true
		}
	}
	return false
}

// HandledTopics returns the topics the ingestion pipeline subscribes to.
func HandledTopics() []WebhookTopic {
	topics := make([]WebhookTopic, len(handledTopics))
	copy(topics, handledTopics)
	return topics
}

// HandledTopicStrings returns the handled topics as plain strings, for
// storage in the tenant's subscription list.
func HandledTopicStrings() []string {
	topics := make([]string, len(handledTopics))
	for i, topic := range handledTopics {
		topics[i] = string(topic)
	}
	return topics
}
