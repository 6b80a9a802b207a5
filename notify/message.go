package notify

import (
	"fmt"

	"github.com/kirychukyurii/checknotifier/model"
)

// CheckURL links to the check page of the monitoring web UI.
func CheckURL(baseURL string, check *model.Check) string {
	return baseURL + "/#/checks/" + check.ID
}

// Message renders the HTML notification text for check, prefixed with the
// capture annotation when the target has a filter.
func Message(baseURL string, target Target, check *model.Check, alerts []*model.Alert) (string, error) {
	message := fmt.Sprintf("Check <a href=%s>%s</a> has entered its %s state.", CheckURL(baseURL, check), check.Name, check.State)
	if !target.HasFilter() {
		return message, nil
	}

	re, err := target.Compile()
	if err != nil {
		return "", err
	}

	return Annotate(Captures(re, alerts)) + message, nil
}
