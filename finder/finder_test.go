package finder

// Shared fixture: a small source tree with a generated module manifest,
// covering the module shapes the finders distinguish.

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/atgo/atgo/moduleinfo"
)

const fooConfigXML = `<configuration description="Runs FooTests.">
    <target_preparer class="com.android.tradefed.targetprep.suite.SuiteApkInstaller">
        <option name="test-file-name" value="FooHelper.apk" />
    </target_preparer>
    <test class="com.android.tradefed.testtype.AndroidJUnitTest">
        <option name="package" value="com.example.foo" />
    </test>
</configuration>
`

const benchConfigXML = `<configuration description="Native benchmarks">
    <option name="run-suite-tag" value="device-suite" />
    <test class="com.android.tradefed.testtype.GTest" />
</configuration>
`

func writeFixtureFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func fixtureTree(t *testing.T) (string, *moduleinfo.Index) {
	t.Helper()
	// Resolve the temp dir through symlinks up front so paths computed by
	// the finders compare equal to paths built from root.
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	manifest := map[string]moduleinfo.Entry{
		"FooTests": {
			Class:               []string{"APPS"},
			Path:                []string{"platform/tests/foo"},
			Installed:           []string{"out/testcases/FooTests.apk"},
			CompatibilitySuites: []string{"general-tests"},
			TestConfig:          []string{"platform/tests/foo/AndroidTest.xml"},
		},
		"FooHelper": {
			Class:     []string{"APPS"},
			Path:      []string{"platform/helper"},
			Installed: []string{"out/app/FooHelper.apk"},
		},
		"FooLib": {
			Class: []string{"JAVA_LIBRARIES"},
			Path:  []string{"platform/tests/foo"},
		},
		"GenTests": {
			Class:               []string{"APPS"},
			Path:                []string{"platform/tests/gen"},
			Installed:           []string{"out/testcases/GenTests.apk"},
			CompatibilitySuites: []string{"general-tests"},
			AutoTestConfig:      []bool{true},
		},
		"RoboTest": {
			Class:     []string{"JAVA_LIBRARIES"},
			Path:      []string{"platform/tests/robo"},
			Installed: []string{"out/robo/RoboTest.jar"},
		},
		"RunRoboTest": {
			Class:     []string{"ROBOLECTRIC"},
			Path:      []string{"platform/tests/robo"},
			Installed: []string{"out/robo/RunRoboTest"},
		},
		"VtsFooTest": {
			Class:               []string{"NATIVE_TESTS"},
			Path:                []string{"platform/tests/vts"},
			Installed:           []string{"out/testcases/VtsFooTest"},
			CompatibilitySuites: []string{"vts"},
			TestConfig:          []string{"platform/tests/vts/AndroidTest.xml"},
		},
		"NativeTests": {
			Class:               []string{"NATIVE_TESTS"},
			Path:                []string{"platform/tests/native"},
			Installed:           []string{"out/testcases/NativeTests"},
			CompatibilitySuites: []string{"general-tests"},
			TestConfig:          []string{"platform/tests/native/AndroidTest.xml"},
		},
		"Alpha": {
			Class:      []string{"APPS"},
			Path:       []string{"platform/tests/multi"},
			Installed:  []string{"out/testcases/Alpha.apk"},
			TestConfig: []string{"platform/tests/multi/AndroidTest.xml"},
		},
		"Beta": {
			Class:      []string{"APPS"},
			Path:       []string{"platform/tests/multi"},
			Installed:  []string{"out/testcases/Beta.apk"},
			TestConfig: []string{"platform/tests/multi/AndroidTest.xml"},
		},
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)
	writeFixtureFile(t, root, "out/module-info.json", string(data))

	writeFixtureFile(t, root, "platform/tests/foo/AndroidTest.xml", fooConfigXML)
	writeFixtureFile(t, root, "platform/tests/foo/src/com/example/foo/FooUnitTests.java",
		"package com.example.foo;\n\npublic class FooUnitTests {\n}\n")
	writeFixtureFile(t, root, "platform/tests/foo/src/com/example/foo/DupTests.java",
		"package com.example.foo;\n\npublic class DupTests {\n}\n")
	// GenTests has an auto-generated config, so its directory carries no
	// AndroidTest.xml marker.
	writeFixtureFile(t, root, "platform/tests/gen/src/com/example/gen/GenUnitTests.java",
		"package com.example.gen;\n\npublic class GenUnitTests {\n}\n")
	writeFixtureFile(t, root, "platform/tests/robo/AndroidTest.xml", "<configuration/>\n")
	writeFixtureFile(t, root, "platform/tests/robo/src/com/example/robo/DupTests.java",
		"package com.example.robo;\n\npublic class DupTests {\n}\n")
	writeFixtureFile(t, root, "platform/tests/vts/AndroidTest.xml", "<configuration/>\n")
	writeFixtureFile(t, root, "platform/tests/native/AndroidTest.xml", "<configuration/>\n")
	writeFixtureFile(t, root, "platform/tests/native/NativeTests.cc",
		"#include <gtest/gtest.h>\n\nTEST(NativeTests, Works) {}\n")
	writeFixtureFile(t, root, "platform/tests/multi/AndroidTest.xml", "<configuration/>\n")
	writeFixtureFile(t, root, "platform/tests/multi/MultiTests.java",
		"package com.example.multi;\n\npublic class MultiTests {\n}\n")
	writeFixtureFile(t, root, "platform/orphan/AndroidTest.xml", "<configuration/>\n")
	writeFixtureFile(t, root, "platform/unowned/src/Thing.java",
		"package com.example.unowned;\n\npublic class Thing {\n}\n")
	writeFixtureFile(t, root, "tools/tradefed/configs/native-benchmark.xml", benchConfigXML)

	index, err := moduleinfo.Load(zerolog.Nop(), root, "", nil)
	require.NoError(t, err)
	return root, index
}
