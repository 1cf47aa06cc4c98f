package generator_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"ai_page_builder/generator"
)

var _ = Describe("StripCodeFence", func() {
	const page = "<!DOCTYPE html>\n<html><body><button>hi</button></body></html>"

	DescribeTable("removes fences and outer whitespace",
		func(raw, want string) {
			Expect(generator.StripCodeFence(raw)).To(Equal(want))
		},
		Entry("clean html unchanged", page, page),
		Entry("untagged fence", "```\n"+page+"\n```", page),
		Entry("html tagged fence", "```html\n"+page+"\n```", page),
		Entry("json tagged fence", "```json\n{\"files\":[]}\n```", `{"files":[]}`),
		Entry("surrounding whitespace", "\n\n  ```html\n"+page+"\n```  \n", page),
		Entry("crlf line endings", "```html\r\n"+page+"\r\n```", page),
		Entry("fence without newlines", "```"+page+"```", page),
		Entry("empty", "   ", ""),
	)

	It("is idempotent", func() {
		for _, raw := range []string{page, "```html\n" + page + "\n```", "  <p>x</p>  "} {
			once := generator.StripCodeFence(raw)
			Expect(generator.StripCodeFence(once)).To(Equal(once))
		}
	})
})

var _ = Describe("ParseOutput", func() {
	Context("html contract", func() {
		It("returns the cleaned document", func() {
			out, err := generator.ParseOutput(generator.ContractHTML, "```html\n<html>...</html>\n```")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Kind).To(Equal(generator.OutputSingle))
			Expect(out.HTML).To(Equal("<html>...</html>"))
		})

		It("renders a markdown reply into a full page", func() {
			out, err := generator.ParseOutput(generator.ContractHTML, "# Bakery\n\nFresh **bread** daily.")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.HTML).To(HavePrefix("<!DOCTYPE html>"))
			Expect(out.HTML).To(ContainSubstring("<title>Bakery</title>"))
			Expect(out.HTML).To(ContainSubstring("<strong>bread</strong>"))
			Expect(out.HTML).To(ContainSubstring(`name="viewport"`))
		})

		DescribeTable("keeps the HTML document out of a chatty reply",
			func(raw, want string) {
				out, err := generator.ParseOutput(generator.ContractHTML, raw)
				Expect(err).NotTo(HaveOccurred())
				Expect(out.Kind).To(Equal(generator.OutputSingle))
				Expect(out.HTML).To(Equal(want))
			},
			Entry("preamble before a bare document",
				"Sure! Here is your page:\n\n<!DOCTYPE html>\n<html><body><button>hi</button></body></html>\n\nLet me know if you need changes.",
				"<!DOCTYPE html>\n<html><body><button>hi</button></body></html>"),
			Entry("preamble before a fenced document",
				"Here is the page you asked for:\n\n```html\n<!DOCTYPE html>\n<html><body>x</body></html>\n```\n\nEnjoy!",
				"<!DOCTYPE html>\n<html><body>x</body></html>"),
			Entry("preamble before an unclosed fence",
				"Here you go:\n```html\n<html lang=\"en\"><body>y</body></html>\n```",
				"<html lang=\"en\"><body>y</body></html>"),
			Entry("fenced document followed by notes",
				"```html\n<!DOCTYPE html>\n<html><body>z</body></html>\n```\nNotes: uses inline CSS.",
				"<!DOCTYPE html>\n<html><body>z</body></html>"),
		)

		It("keeps raw HTML inside a markdown reply", func() {
			out, err := generator.ParseOutput(generator.ContractHTML,
				"# Shop\n\n<button class=\"buy\">Buy</button>\n\nSome *text*.")
			Expect(err).NotTo(HaveOccurred())
			Expect(out.HTML).To(ContainSubstring(`<button class="buy">Buy</button>`))
			Expect(out.HTML).To(ContainSubstring("<em>text</em>"))
			Expect(out.HTML).NotTo(ContainSubstring("raw HTML omitted"))
		})

		It("fails on an empty reply", func() {
			_, err := generator.ParseOutput(generator.ContractHTML, "```html\n```")
			Expect(errors.Is(err, generator.ErrEmptyResponse)).To(BeTrue())
		})
	})

	Context("files contract", func() {
		It("decodes every file", func() {
			raw := "```json\n" + `{"files":[{"file_title":"index.html","content":"<html>a</html>"},{"file_title":"about.html","content":"<html>b</html>"}]}` + "\n```"
			out, err := generator.ParseOutput(generator.ContractFiles, raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Kind).To(Equal(generator.OutputFiles))
			Expect(out.Files).To(Equal([]generator.File{
				{Title: "index.html", Content: "<html>a</html>"},
				{Title: "about.html", Content: "<html>b</html>"},
			}))
		})

		DescribeTable("rejects replies that break the contract",
			func(raw string) {
				_, err := generator.ParseOutput(generator.ContractFiles, raw)
				Expect(errors.Is(err, generator.ErrInvalidFormat)).To(BeTrue())
			},
			Entry("plain html", "<html></html>"),
			Entry("missing files key", `{"pages":[]}`),
			Entry("empty files", `{"files":[]}`),
			Entry("truncated json", `{"files":[{"file_title":"index.html"`),
		)
	})
})
