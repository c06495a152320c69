package counter

// Counter is the counter slice of state.
type Counter struct {
	Value int `json:"value"`
}

func (Counter) TypeName() string {
	return "counter"
}

func Initial() Counter {
	return Counter{Value: 0}
}
