package delta_test

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/richedit/internal/engine/delta"
)

func ExampleCompose() {
	a := delta.New().Retain(5, nil).Insert(" world", nil)
	b := delta.New().Retain(6, nil).Retain(5, delta.AttributeMap{"bold": true})

	c := delta.Compose(a, b)
	fmt.Println(c)

	text, _ := c.Apply("Hello")
	fmt.Println(text)

	data, _ := json.Marshal(c)
	fmt.Println(string(data))
	// Output:
	// [retain(5), insert(" "), insert("world")map[bold:true]]
	// Hello world
	// {"ops":[{"retain":5},{"insert":" "},{"insert":"world","attributes":{"bold":true}}]}
}
