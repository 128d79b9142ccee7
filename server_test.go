package laureld_test

import (
	"testing"

	"laureld"
)

func TestServerLifecycle(t *testing.T) {
	s := laureld.NewLDAPServer(nil)
	go func() {
		err := s.ListenAndServe("localhost:389")
		if err != nil {
			t.Error("Error listening:", err)
		}
	}()
	s.Shutdown()
}
