package enumerator_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEnumerator(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Enumerator Suite")
}
