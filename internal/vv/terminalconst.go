//    TopicMapServer
//    Copyright: E Gunderson 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

const (
	TERMINALTEXT = `Copyright (C) %s / %s
      %s

      This program comes with ABSOLUTELY NO WARRANTY; without even the
      implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

      This is free software, and you are welcome to redistribute it and/or
      modify it under the terms of the GNU General Public License version 3.`

	PROJYEAR = "2024"
	PROJAUTH = "E. Gunderson"
	PROJURL  = "https://github.com/e-gun/TopicMapServer"

	// the notes that sit above the knobs and the text box

	INFOKNOBS    = "You can adjust the parameters such as the number of topics, minimum topic size, and number of top words to fine-tune the topic model according to your data. Note that the default parameters are %d, %d and %d."
	INFOPASTE    = "Paste the texts in the box below, one text per line, or upload a CSV file. There should be more than 100 texts, otherwise the topics will not hold up."
	INFONEEDMORE = "This is a demo for topic modeling. Please enter texts in the input box, with each text separated by a new line. More than 100 texts are recommended for better results."
	INFOCATEGORY = "Each text is also given a simple keyword-based category (family, relationship, friendship, work, other) and every topic reports its dominant category."

	// user-facing pipeline messages

	MSGNOEMBED  = "Topic embeddings not found, skipping visualization."
	MSGINDEXERR = "IndexError: %s"
	MSGVISERR   = "An error occurred during visualization. Please check the topic embeddings and indices."
)
