package ragblade

var defaultDocuments = []string{
	// Geography & Locations
	"Los Angeles is a major city in California, USA. It is known for Hollywood, beaches, and diverse culture.",
	"Paris is the capital of France and home to famous landmarks like the Eiffel Tower.",
	"The Great Wall of China is an ancient structure that stretches over 13,000 miles.",

	// History & Events
	"Ferdinand Magellan was a Portuguese explorer who led the first circumnavigation of the world.",
	"The Moon landing happened in 1969, when Neil Armstrong became the first human to walk on the Moon.",

	// Science & General Knowledge
	"Water boils at 100 degrees Celsius at sea level.",
	"Electricity is generated through various methods, including fossil fuels, hydroelectric power, and solar energy.",

	// Culture & Entertainment
	"Hollywood is a district in Los Angeles, famous for being the center of the American film industry.",
	"Beverly Hills is known for its luxury homes and high-end shopping areas like Rodeo Drive.",

	// Travel & Tourism
	"The Statue of Liberty is a famous symbol of freedom in New York City, USA.",
	"Mount Everest is the tallest mountain in the world, located in the Himalayas.",

	// Information and Technology
	"Python programming language is a popular in data science.",
	"Kubernetes is an orchestration tool.",
}

// DefaultDocuments returns a copy of the built-in corpus.
func DefaultDocuments() []string {
	docs := make([]string, len(defaultDocuments))
	copy(docs, defaultDocuments)
	return docs
}
