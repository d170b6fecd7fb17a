/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/doctran/internal/blob"
	"github.com/valpere/doctran/internal/extractor"
	"github.com/valpere/doctran/internal/orchestrator"
	"github.com/valpere/doctran/internal/writer"
)

var (
	textInput  string
	textOutput string

	docFormat    string
	docOutput    string
	docOutputDir string
	docQuiet     bool
)

var textCmd = &cobra.Command{
	Use:   "text [text...]",
	Short: "Translate a piece of English text",
	Long: `Translate English text given as arguments, read from a file (-i), or read
from stdin (-i -). The translation is printed to stdout unless -o is set.

Examples:
  doctran text -t Hindi "Good morning"
  doctran text -t Tamil -i notes.txt -o gs://bucket/notes.ta.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.close()

		text, err := readTextInput(ctx, p.blob, textInput, args)
		if err != nil {
			return err
		}

		job, err := p.orchestrator.TranslateText(ctx, text, p.opts)
		if err != nil {
			return err
		}

		if textOutput == "" {
			fmt.Println(job.Text)
			return nil
		}
		if err := p.blob.Write(ctx, textOutput, []byte(job.Text), "text/plain; charset=utf-8"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Translated text to %s: %s\n", p.opts.TargetLanguage, textOutput)
		return nil
	},
}

var docCmd = &cobra.Command{
	Use:   "doc <file>",
	Short: "Translate a PDF, DOCX or TXT document",
	Long: `Extract the text of a PDF, DOCX or TXT document, translate it chunk by chunk,
and write the result as TXT (default), DOCX or PDF.

The input and output may be local paths or gs://bucket/object URIs. A chunk that
fails to translate is reported and skipped; the rest of the document is kept.

Examples:
  doctran doc report.pdf -t Hindi
  doctran doc notes.docx -t Bengali -f docx --output-dir ./out
  doctran doc gs://in/contract.pdf -o gs://out/contract.hi.pdf -f pdf`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		format, err := extractor.ParseFormat(docFormat)
		if err != nil {
			return err
		}
		source := args[0]
		if _, err := extractor.FormatFromFilename(source); err != nil {
			return err
		}

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.close()
		p.reporter.quiet = docQuiet

		data, err := p.blob.Read(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		job, err := p.orchestrator.TranslateDocument(ctx, orchestrator.Document{
			Filename: blob.Base(source),
			Data:     data,
		}, p.opts)
		if err != nil {
			return err
		}
		if job.State == orchestrator.StateNoContent {
			return nil
		}

		dest, err := writeDocument(ctx, p, job, source, format)
		if err != nil {
			return err
		}

		fmt.Printf("Translated %s to %s: %s\n", blob.Base(source), p.opts.TargetLanguage, dest)
		fmt.Printf("Chunks: %d/%d translated\n", job.TotalChunks-len(job.FailedChunks), job.TotalChunks)
		if job.Failed() {
			fmt.Printf("Failed chunks: %s\n", joinInts(job.FailedChunks))
		}
		if job.DroppedSegments > 0 {
			fmt.Printf("Skipped %d empty pages or paragraphs\n", job.DroppedSegments)
		}
		return nil
	},
}

var errNothingTranslated = errors.New("no chunk was translated, no output written")

// writeDocument renders job.Text in format and stores it at --output or the
// default name under --output-dir. A job with no translated text writes
// nothing.
func writeDocument(ctx context.Context, p *pipeline, job *orchestrator.JobResult, source string, format extractor.Format) (string, error) {
	if strings.TrimSpace(job.Text) == "" {
		p.reporter.Error(fmt.Sprintf("all %d chunks of %s failed, skipping output", job.TotalChunks, blob.Base(source)))
		return "", errNothingTranslated
	}

	out, err := p.writer.Write(job.Text, format)
	if err != nil {
		return "", err
	}
	for _, w := range out.Warnings {
		p.reporter.Warn(w)
	}

	dest := docOutput
	if dest == "" {
		dest = blob.Join(docOutputDir, writer.OutputName(source, format))
	}
	if err := p.blob.Write(ctx, dest, out.Data, out.ContentType); err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}
	return dest, nil
}

// readTextInput returns the text to translate from args, a file or gs://
// object, or stdin when path is "-".
func readTextInput(ctx context.Context, store *blob.Store, path string, args []string) (string, error) {
	switch {
	case path == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	case path != "":
		if len(args) > 0 {
			return "", errors.New("use either text arguments or --input, not both")
		}
		data, err := store.Read(ctx, path)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	return strings.Join(args, " "), nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(textCmd)
	rootCmd.AddCommand(docCmd)

	textCmd.Flags().StringVarP(&textInput, "input", "i", "", "Read text from a file, gs:// URI, or - for stdin")
	textCmd.Flags().StringVarP(&textOutput, "output", "o", "", "Write the translation to a file or gs:// URI instead of stdout")

	docCmd.Flags().StringVarP(&docFormat, "format", "f", "txt", "Output format: txt, docx, pdf")
	docCmd.Flags().StringVarP(&docOutput, "output", "o", "", "Output file or gs:// URI (default translated_<name>.<format>)")
	docCmd.Flags().StringVar(&docOutputDir, "output-dir", ".", "Directory or gs://bucket/prefix for the default output name")
	docCmd.Flags().BoolVarP(&docQuiet, "quiet", "q", false, "Hide per-chunk progress")
}
