package conversation

import "github.com/phrazzld/lernbuddy/internal/domain"

// Scenario frames one roleplay situation: who the partner is, how the
// conversation opens, and what to fall back on when no language model is
// available.
type Scenario struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Level       domain.CEFRLevel `json:"level"`

	// Persona describes the partner the model should play.
	Persona string `json:"-"`

	// Opening is the partner's first line, always scripted so every
	// conversation starts identically.
	Opening string `json:"opening"`

	// ScriptedReplies keep the dialogue moving when the model is
	// unavailable. They cycle in order.
	ScriptedReplies []string `json:"-"`
}

// DefaultScenarios returns the built-in roleplay catalog, ordered by level.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			ID:          "greeting",
			Title:       "Erste Begegnung",
			Description: "Meet someone new and introduce yourself.",
			Level:       domain.CEFRLevelA1,
			Persona:     "a friendly stranger at a language exchange meetup in Berlin",
			Opening:     "Hallo! Ich bin Anna. Wie heißt du?",
			ScriptedReplies: []string{
				"Schön, dich kennenzulernen! Woher kommst du?",
				"Interessant! Und was machst du beruflich?",
				"Toll! Wie lange lernst du schon Deutsch?",
				"Das klingt gut. Was machst du gern in deiner Freizeit?",
			},
		},
		{
			ID:          "cafe",
			Title:       "Im Café",
			Description: "Order food and drinks at a café.",
			Level:       domain.CEFRLevelA1,
			Persona:     "a waiter in a cozy Viennese café",
			Opening:     "Guten Tag! Was darf ich Ihnen bringen?",
			ScriptedReplies: []string{
				"Gerne! Möchten Sie auch etwas essen?",
				"Eine gute Wahl. Darf es sonst noch etwas sein?",
				"Kommt sofort! Möchten Sie getrennt oder zusammen zahlen?",
				"Das macht acht Euro fünfzig, bitte.",
			},
		},
		{
			ID:          "shopping",
			Title:       "Einkaufen",
			Description: "Buy clothes and ask about sizes and prices.",
			Level:       domain.CEFRLevelA1,
			Persona:     "a shop assistant in a clothing store",
			Opening:     "Guten Tag! Kann ich Ihnen helfen?",
			ScriptedReplies: []string{
				"Natürlich! Welche Größe brauchen Sie?",
				"Einen Moment, ich schaue nach. Welche Farbe gefällt Ihnen?",
				"Hier, bitte. Die Umkleidekabine ist dort hinten.",
				"Das steht Ihnen gut! Das kostet neunundzwanzig Euro.",
			},
		},
		{
			ID:          "directions",
			Title:       "Nach dem Weg fragen",
			Description: "Ask for and understand directions in a city.",
			Level:       domain.CEFRLevelA2,
			Persona:     "a helpful local on a street corner in Munich",
			Opening:     "Entschuldigung, Sie sehen verloren aus. Kann ich Ihnen helfen?",
			ScriptedReplies: []string{
				"Ach, das ist nicht weit! Gehen Sie geradeaus bis zur Ampel.",
				"Dann biegen Sie links ab und gehen an der Kirche vorbei.",
				"Genau, und danach ist es die zweite Straße rechts.",
				"Zu Fuß brauchen Sie ungefähr zehn Minuten. Gute Reise!",
			},
		},
		{
			ID:          "doctor",
			Title:       "Beim Arzt",
			Description: "Describe symptoms and understand advice at the doctor's.",
			Level:       domain.CEFRLevelA2,
			Persona:     "a patient, thorough general practitioner",
			Opening:     "Guten Tag! Nehmen Sie Platz. Was führt Sie zu mir?",
			ScriptedReplies: []string{
				"Ich verstehe. Seit wann haben Sie diese Beschwerden?",
				"Haben Sie auch Fieber oder Kopfschmerzen?",
				"Ich verschreibe Ihnen etwas dagegen. Nehmen Sie es zweimal täglich.",
				"Ruhen Sie sich aus und trinken Sie viel. Gute Besserung!",
			},
		},
		{
			ID:          "job_interview",
			Title:       "Vorstellungsgespräch",
			Description: "Present your experience and goals in a job interview.",
			Level:       domain.CEFRLevelB1,
			Persona:     "an HR manager interviewing for an office position",
			Opening:     "Herzlich willkommen! Erzählen Sie mir zuerst etwas über sich.",
			ScriptedReplies: []string{
				"Interessant. Welche Erfahrungen bringen Sie für diese Stelle mit?",
				"Und was würden Sie als Ihre größte Stärke bezeichnen?",
				"Wo sehen Sie sich beruflich in fünf Jahren?",
				"Haben Sie noch Fragen an uns? Wir melden uns nächste Woche bei Ihnen.",
			},
		},
		{
			ID:          "debate",
			Title:       "Diskussion",
			Description: "Argue your position on a current topic.",
			Level:       domain.CEFRLevelB2,
			Persona:     "a sharp but fair debate partner who challenges every argument",
			Opening:     "Heute diskutieren wir über das Leben in der Stadt und auf dem Land. Was ist Ihrer Meinung nach besser?",
			ScriptedReplies: []string{
				"Ein guter Punkt, aber haben Sie die Nachteile bedacht?",
				"Das sehe ich anders. Wie erklären Sie sich dann die Gegenbeispiele?",
				"Zugegeben, das ist ein starkes Argument. Aber was ist mit den Kosten?",
				"Lassen Sie uns zum Schluss kommen: Hat sich Ihre Meinung geändert?",
			},
		},
	}
}
