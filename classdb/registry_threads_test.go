//go:build threads

package classdb

import (
	"fmt"
	"sync"
	"testing"
)

func TestRegistry_ConcurrentBindDuringRegister(t *testing.T) {
	r := NewRegistry()
	first, err := r.Register(mustDescribe(t, &Foo{}))
	if err != nil {
		t.Fatal(err)
	}
	add, _ := first.Method("add")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				name := fmt.Sprintf("Foo%d_%d", i, j)
				desc, err := Describe(&Foo{}, WithName(name))
				if err != nil {
					t.Errorf("Describe(%s) failed: %v", name, err)
					return
				}
				if _, err := r.Register(desc); err != nil {
					t.Errorf("Register(%s) failed: %v", name, err)
					return
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				b, err := r.Bind(add.Bind)
				if err != nil || b.Class != "Foo" || b.Method.Name != "add" {
					t.Errorf("Bind = %s.%s, %v", b.Class, b.Method.Name, err)
					return
				}
				_ = r.Classes()
			}
		}()
	}
	wg.Wait()

	if r.Len() != 1+8*50 {
		t.Fatalf("Len = %d, want %d", r.Len(), 1+8*50)
	}
}
