package env_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"xmimodel/src/helper/env"
)

var _ = Describe("env", func() {
	const name = "XMI_ENV_SPEC"

	AfterEach(func() {
		os.Unsetenv(name)
	})

	When("the variable is unset", func() {
		It("should fall back to the defaults", func() {
			Expect(env.GetString(name, "fallback")).To(Equal("fallback"))
			Expect(env.GetInt(name, 4)).To(Equal(4))
			Expect(env.GetDuration(name, time.Minute)).To(Equal(time.Minute))
			Expect(env.GetStringSlice(name, "a")).To(Equal([]string{"a"}))
		})

		It("should panic on the must variants", func() {
			Expect(func() { env.MustGetString(name) }).To(Panic())
			Expect(func() { env.MustGetInt(name) }).To(Panic())
		})
	})

	When("the variable is set", func() {
		It("should parse durations given as seconds or as Go durations", func() {
			os.Setenv(name, "30")
			Expect(env.GetDuration(name)).To(Equal(30 * time.Second))

			os.Setenv(name, "250ms")
			Expect(env.GetDuration(name)).To(Equal(250 * time.Millisecond))
		})

		It("should split and trim comma separated lists", func() {
			// ARRANGE
			os.Setenv(name, "kafka-1:9092, kafka-2:9092,,")

			// ACT
			result := env.GetStringSlice(name)

			// ASSERT
			Expect(result).To(Equal([]string{"kafka-1:9092", "kafka-2:9092"}))
		})

		It("should parse booleans", func() {
			os.Setenv(name, "true")
			Expect(env.MustGetBool(name)).To(BeTrue())
		})
	})
})
