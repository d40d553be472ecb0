package meraki

import "time"

type organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type deviceAvailability struct {
	Name        string `json:"name"`
	Serial      string `json:"serial"`
	MAC         string `json:"mac"`
	ProductType string `json:"productType"`
	Status      string `json:"status"`
	Network     struct {
		ID string `json:"id"`
	} `json:"network"`
}

type changeValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type changeHistoryEntry struct {
	TS     time.Time `json:"ts"`
	Device struct {
		Serial      string `json:"serial"`
		Name        string `json:"name"`
		ProductType string `json:"productType"`
	} `json:"device"`
	Details struct {
		Old []changeValue `json:"old"`
		New []changeValue `json:"new"`
	} `json:"details"`
	Network struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"network"`
}

// status returns the "status" entry of a change list, falling back to the
// first value when entries are unnamed.
func status(values []changeValue) string {
	for _, v := range values {
		if v.Name == "status" {
			return v.Value
		}
	}
	if len(values) > 0 {
		return values[0].Value
	}
	return ""
}
