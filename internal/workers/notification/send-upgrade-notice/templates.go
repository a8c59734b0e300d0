// internal/workers/notification/send-upgrade-notice/templates.go
package sendupgradenotice

import (
	"fmt"
	"strings"
)

type template struct {
	subject string
	body    string
}

var templates = map[string]template{
	ReasonFeatureLocked: {
		subject: "Unlock {{feature}} with JobVance {{suggestedTier}}",
		body: "Hi {{name}},\n\n" +
			"{{feature}} is not part of your {{tier}} plan. Upgrade to {{suggestedTier}} to start using it today.\n\n" +
			"See plans: {{upgradeUrl}}\n",
	},
	ReasonQuotaExceeded: {
		subject: "You have reached your {{tier}} plan limit",
		body: "Hi {{name}},\n\n" +
			"You have used all of your {{quota}} for today on the {{tier}} plan. " +
			"{{suggestedTier}} raises the limit so you can keep going.\n\n" +
			"See plans: {{upgradeUrl}}\n",
	},
	ReasonRowsMasked: {
		subject: "More matching jobs are waiting for you",
		body: "Hi {{name}},\n\n" +
			"Your last search found more jobs than your {{tier}} plan can show. " +
			"Upgrade to {{suggestedTier}} to see every match.\n\n" +
			"See plans: {{upgradeUrl}}\n",
	},
}

// renderTemplate replaces {{key}} placeholders and drops any left unresolved.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}

	return result
}
